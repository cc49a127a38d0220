package export

import (
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aretw0/libretto/pkg/domain"
)

// Outputs holds render results by scene index and language.
type Outputs map[int]map[string]domain.Output

// OutputsFromRecords indexes stored records.
func OutputsFromRecords(records []*domain.Record) Outputs {
	out := make(Outputs)
	for _, r := range records {
		if out[r.Scene] == nil {
			out[r.Scene] = make(map[string]domain.Output)
		}
		out[r.Scene][r.Language] = r.Output
	}
	return out
}

// Add stores one render result; it matches runtime.SceneFunc.
func (o Outputs) Add(scene int, language string, out domain.Output) {
	if o[scene] == nil {
		o[scene] = make(map[string]domain.Output)
	}
	o[scene][language] = out
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements(
			"article", "section", "aside", "h1", "p", "br", "ol", "ul", "li", "span",
			"strong", "em", "b", "i", "u", "s", "mark", "small", "sub", "sup",
			"q", "blockquote", "code", "ruby", "rt", "rp",
		)
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("src", "alt").OnElements("img")
		p.AllowAttrs("lang").Matching(languageTag).Globally()
		p.AllowAttrs("dir").Matching(direction).Globally()
		p.AllowAttrs("class").Matching(className).Globally()
		p.AllowDataAttributes()
		policy = p
	})
	return policy
}

var (
	languageTag = regexp.MustCompile(`^[A-Za-z0-9-]{1,35}$`)
	direction   = regexp.MustCompile(`^(ltr|rtl)$`)
	className   = regexp.MustCompile(`^[a-z][a-z0-9 -]*$`)
)

// HTML renders the page as an HTML fragment: one section per scene and
// language, using the translation content when the language has one.
// Authored markup (element tags and attributes) is passed through a
// sanitizer, so unsafe tags, event handlers and script URLs are dropped.
// When outputs has tokens for a (scene, language), they are listed with
// their timing.
func HTML(page *domain.Page, outputs Outputs) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<article class="libretto-page" data-page="%s">`, html.EscapeString(page.Name))
	if page.Name != "" {
		fmt.Fprintf(&sb, "<h1>%s</h1>", html.EscapeString(page.Name))
	}

	for i, sc := range page.Scenes {
		fmt.Fprintf(&sb, `<section class="scene" data-scene="%d">`, i)
		for _, lang := range sc.Languages {
			children, dir := sc.Children, domain.DirectionUnset
			if trs := sc.Translations(lang); len(trs) > 0 {
				children = nil
				for _, tr := range trs {
					children = append(children, tr.Children...)
					if tr.Direction != domain.DirectionUnset {
						dir = tr.Direction
					}
				}
			}

			fmt.Fprintf(&sb, `<section class="language" lang="%s"`, html.EscapeString(lang))
			if dir != domain.DirectionUnset {
				fmt.Fprintf(&sb, ` dir="%s"`, dir)
			}
			sb.WriteString(">")
			writeNodes(&sb, children)
			writeTokens(&sb, outputs[i][lang])
			sb.WriteString("</section>")
		}
		sb.WriteString("</section>")
	}
	sb.WriteString("</article>")

	return sanitizer().Sanitize(sb.String())
}

func writeNodes(sb *strings.Builder, nodes []domain.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case domain.Text:
			sb.WriteString(html.EscapeString(string(v)))
		case *domain.Element:
			tag := html.EscapeString(v.Tag)
			fmt.Fprintf(sb, "<%s", tag)
			keys := make([]string, 0, len(v.Attrs))
			for k := range v.Attrs {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(sb, ` %s="%s"`, html.EscapeString(k), html.EscapeString(v.Attrs[k]))
			}
			sb.WriteString(">")
			writeNodes(sb, v.Children)
			fmt.Fprintf(sb, "</%s>", tag)
		case *domain.Speaker:
			fmt.Fprintf(sb, `<img class="speaker" src="%s" alt="speaker">`, html.EscapeString(v.Src))
		case *domain.Popup:
			fmt.Fprintf(sb, `<aside class="popup"><img src="%s" alt="">`, html.EscapeString(v.Src))
			writeNodes(sb, v.Children)
			sb.WriteString("</aside>")
		}
	}
}

func writeTokens(sb *strings.Builder, out domain.Output) {
	if len(out) == 0 {
		return
	}
	sb.WriteString(`<ol class="tokens">`)
	for _, tok := range out {
		fmt.Fprintf(sb, `<li data-start-ms="%d" data-duration-ms="%d">%s</li>`,
			tok.StartMs, tok.DurationMs, html.EscapeString(tok.Text))
	}
	sb.WriteString("</ol>")
}
