package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/libretto/pkg/domain"
)

// maxLabel bounds text labels so long narration does not swamp the diagram.
const maxLabel = 32

// Overlay contains render state to visualize on the graph.
type Overlay struct {
	RenderedScenes []int
	// FailedScene is the index of the scene whose render failed, or -1.
	FailedScene int
}

// GenerateMermaid produces a Mermaid flowchart of the page tree.
// It applies semantic styling:
// - Page: ((Circle))
// - Scene: [/Parallelogram/] labelled with its languages
// - Speaker: [[Subroutine]]
// - Popup: {{Hexagon}}
// - Translation: [\Trapezoid/]
// - Element and Text: [Rectangle]
// It also applies overlay styles (rendered/failed scenes) if provided.
func GenerateMermaid(page *domain.Page, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	name := page.Name
	if name == "" {
		name = "page"
	}
	fmt.Fprintf(&sb, "    page((\"%s\"))\n", escape(name))

	for i, sc := range page.Scenes {
		id := fmt.Sprintf("s%d", i)
		label := fmt.Sprintf("Scene %d <br/> %s", i, strings.Join(sc.Languages, ", "))
		fmt.Fprintf(&sb, "    %s[/\"%s\"/]\n", id, escape(label))
		fmt.Fprintf(&sb, "    page --> %s\n", id)
		writeChildren(&sb, id, sc.Children)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme
		sb.WriteString("    classDef rendered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, i := range overlay.RenderedScenes {
			if !seen[i] && i >= 0 && i < len(page.Scenes) {
				seen[i] = true
				fmt.Fprintf(&sb, "    class s%d rendered;\n", i)
			}
		}
		if overlay.FailedScene >= 0 && overlay.FailedScene < len(page.Scenes) {
			fmt.Fprintf(&sb, "    class s%d failed;\n", overlay.FailedScene)
		}
	}

	return sb.String()
}

func writeChildren(sb *strings.Builder, parent string, children []domain.Node) {
	for i, child := range children {
		id := fmt.Sprintf("%s_%d", parent, i)
		opener, closer, label := "[", "]", child.Kind().String()

		switch n := child.(type) {
		case domain.Text:
			label = truncate(strings.Join(strings.Fields(string(n)), " "))
		case *domain.Element:
			label = "<" + n.Tag + ">"
		case *domain.Speaker:
			opener, closer = "[[", "]]"
			label = "Speaker <br/> " + n.Src
		case *domain.Popup:
			opener, closer = "{{", "}}"
			label = "Popup <br/> " + n.Src
		case *domain.Translation:
			opener, closer = "[\\", "/]"
			label = "Translation <br/> " + n.Language
			if n.Direction != domain.DirectionUnset {
				label += " (" + string(n.Direction) + ")"
			}
		}

		fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)
		fmt.Fprintf(sb, "    %s --> %s\n", parent, id)

		switch n := child.(type) {
		case *domain.Element:
			writeChildren(sb, id, n.Children)
		case *domain.Popup:
			writeChildren(sb, id, n.Children)
		case *domain.Translation:
			writeChildren(sb, id, n.Children)
		}
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabel {
		return s
	}
	return string(r[:maxLabel-1]) + "…"
}

// escape replaces double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
