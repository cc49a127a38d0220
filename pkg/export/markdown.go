package export

import (
	"fmt"
	"strings"

	"github.com/aretw0/libretto/internal/runtime"
	"github.com/aretw0/libretto/pkg/domain"
)

// Markdown returns an outline of the page: every scene's structure followed
// by the narration each language would send to its generator.
func Markdown(page *domain.Page) string {
	var sb strings.Builder
	name := page.Name
	if name == "" {
		name = "Untitled page"
	}
	fmt.Fprintf(&sb, "# %s\n", name)

	for i, sc := range page.Scenes {
		fmt.Fprintf(&sb, "\n## Scene %d\n\n", i)
		fmt.Fprintf(&sb, "Languages: %s", strings.Join(sc.Languages, ", "))
		if sc.AuthoringLanguage != "" {
			fmt.Fprintf(&sb, " (authored in %s)", sc.AuthoringLanguage)
		}
		sb.WriteString("\n\n")
		writeOutline(&sb, sc.Children, 0)

		sb.WriteString("\n### Narration\n\n")
		for _, lang := range sc.Languages {
			tokens := runtime.NarrationFor(sc, lang)
			quoted := make([]string, len(tokens))
			for j, tok := range tokens {
				quoted[j] = fmt.Sprintf("%q", tok)
			}
			if len(quoted) == 0 {
				quoted = []string{"_silent_"}
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", lang, strings.Join(quoted, " "))
		}
	}
	return sb.String()
}

func writeOutline(sb *strings.Builder, nodes []domain.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch v := n.(type) {
		case domain.Text:
			if s := strings.Join(strings.Fields(string(v)), " "); s != "" {
				fmt.Fprintf(sb, "%s- %s\n", indent, s)
			}
		case *domain.Element:
			fmt.Fprintf(sb, "%s- `<%s>`\n", indent, v.Tag)
			writeOutline(sb, v.Children, depth+1)
		case *domain.Speaker:
			fmt.Fprintf(sb, "%s- Speaker: `%s`\n", indent, v.Src)
		case *domain.Popup:
			fmt.Fprintf(sb, "%s- Popup: `%s`\n", indent, v.Src)
			writeOutline(sb, v.Children, depth+1)
		case *domain.Translation:
			dir := ""
			if v.Direction != domain.DirectionUnset {
				dir = " (" + string(v.Direction) + ")"
			}
			fmt.Fprintf(sb, "%s- Translation %s%s\n", indent, v.Language, dir)
			writeOutline(sb, v.Children, depth+1)
		}
	}
}
