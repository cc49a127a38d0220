package export_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/export"
	"github.com/stretchr/testify/assert"
)

func samplePage() *domain.Page {
	noop := func(context.Context, domain.Config, ...string) (domain.Output, error) { return nil, nil }
	return &domain.Page{
		Name: "page1",
		Scenes: []*domain.Scene{
			{
				Languages:         []string{"us", "arabic"},
				AuthoringLanguage: "us",
				Generate:          noop,
				Children: []domain.Node{
					&domain.Speaker{Src: "speaker1.png"},
					domain.Text("Hello, this is some "),
					&domain.Element{Tag: "strong", Children: []domain.Node{domain.Text("text in the scene.")}},
					&domain.Popup{Src: "popup1.png", Children: []domain.Node{domain.Text("A popup.")}},
					&domain.Translation{Language: "arabic", Direction: domain.DirectionRTL, Children: []domain.Node{
						domain.Text("مرحبًا"),
					}},
				},
			},
			{Languages: []string{"us"}, Generate: noop, Children: []domain.Node{&domain.Speaker{Src: "s.png"}}},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := export.Markdown(samplePage())

	for _, want := range []string{
		"# page1",
		"## Scene 0",
		"Languages: us, arabic (authored in us)",
		"- Speaker: `speaker1.png`",
		"- Hello, this is some",
		"- `<strong>`\n  - text in the scene.",
		"- Popup: `popup1.png`\n  - A popup.",
		"- Translation arabic (rtl)\n  - مرحبًا",
		`- **us**: "Hello, this is some" "text in the scene."`,
		`- **arabic**: "مرحبًا"`,
		"## Scene 1",
		"- **us**: _silent_",
	} {
		assert.Contains(t, md, want)
	}
}

func TestHTML(t *testing.T) {
	outputs := export.Outputs{}
	outputs.Add(0, "us", domain.Output{{Text: "Hello", StartMs: 0, DurationMs: domain.UnknownDuration}})

	doc := export.HTML(samplePage(), outputs)

	for _, want := range []string{
		`<article class="libretto-page" data-page="page1">`,
		`<h1>page1</h1>`,
		`<section class="scene" data-scene="0">`,
		`<section class="language" lang="us">`,
		`<img class="speaker" src="speaker1.png" alt="speaker">`,
		`<strong>text in the scene.</strong>`,
		`<aside class="popup">`,
		`<section class="language" lang="arabic" dir="rtl">مرحبًا`,
		`<li data-start-ms="0" data-duration-ms="-1">Hello</li>`,
	} {
		assert.Contains(t, doc, want)
	}
	// The arabic section carries only the translation.
	arabic := doc[strings.Index(doc, `lang="arabic"`):]
	arabic = arabic[:strings.Index(arabic, "</section>")]
	assert.NotContains(t, arabic, "Hello")
}

func TestHTML_SanitizesAuthoredMarkup(t *testing.T) {
	noop := func(context.Context, domain.Config, ...string) (domain.Output, error) { return nil, nil }
	page := &domain.Page{Name: "x", Scenes: []*domain.Scene{{
		Languages: []string{"en"},
		Generate:  noop,
		Children: []domain.Node{
			&domain.Element{Tag: "script", Children: []domain.Node{domain.Text("alert(1)")}},
			&domain.Element{Tag: "em", Attrs: map[string]string{"onclick": "steal()"}, Children: []domain.Node{domain.Text("safe")}},
			&domain.Element{Tag: "a", Attrs: map[string]string{"href": "javascript:alert(1)"}, Children: []domain.Node{domain.Text("link")}},
			domain.Text("<b>not markup</b>"),
		},
	}}}

	doc := export.HTML(page, nil)

	assert.NotContains(t, doc, "<script")
	assert.NotContains(t, doc, "alert(1)")
	assert.NotContains(t, doc, "onclick")
	assert.Contains(t, doc, "<em>safe</em>")
	assert.Contains(t, doc, "link")
	assert.Contains(t, doc, "&lt;b&gt;not markup&lt;/b&gt;")
}

func TestOutputsFromRecords(t *testing.T) {
	out := export.OutputsFromRecords([]*domain.Record{
		{Scene: 0, Language: "en", Output: domain.Output{{Text: "a"}}},
		{Scene: 1, Language: "fr", Output: domain.Output{{Text: "b"}}},
	})
	assert.Equal(t, "a", out[0]["en"][0].Text)
	assert.Equal(t, "b", out[1]["fr"][0].Text)
	assert.Nil(t, out[2]["en"])
}
