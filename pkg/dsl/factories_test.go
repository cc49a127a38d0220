package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/dsl"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, cfg domain.Config, tokens ...string) (domain.Output, error) {
	return nil, nil
}

func TestScene_PreservesChildOrder(t *testing.T) {
	speaker := dsl.Speaker(dsl.SpeakerProps{Src: "speaker1.png"})
	strong := dsl.Must(dsl.Element(dsl.ElementProps{Tag: "strong", Children: "text in the scene."}))
	popup := dsl.Must(dsl.Popup(dsl.PopupProps{Src: "popup1.png", Children: "A popup."}))
	arabic := dsl.Must(dsl.Translation(dsl.TranslationProps{Language: "arabic", Direction: domain.DirectionRTL}))

	sc, err := dsl.Scene(dsl.SceneProps{
		Languages: []string{"us", "uk", "arabic"},
		Generate:  noop,
		Children:  []any{speaker, "Hello, this is some ", strong, popup, arabic, domain.Text("bye")},
	})
	require.NoError(t, err)

	want := []domain.Node{speaker, domain.Text("Hello, this is some "), strong, popup, arabic, domain.Text("bye")}
	if diff := cmp.Diff(want, sc.Children); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"us", "uk", "arabic"}, sc.Languages)
}

func TestScene_PreservesTypedChildSlices(t *testing.T) {
	a := dsl.Speaker(dsl.SpeakerProps{Src: "a.png"})
	b := dsl.Speaker(dsl.SpeakerProps{Src: "b.png"})
	pop := dsl.Must(dsl.Popup(dsl.PopupProps{Src: "p.png", Children: "hi"}))
	em := dsl.Must(dsl.Element(dsl.ElementProps{Tag: "em", Children: "x"}))

	tests := []struct {
		name     string
		children any
		want     []domain.Node
	}{
		{"speakers", []*domain.Speaker{a, b}, []domain.Node{a, b}},
		{"popups", []*domain.Popup{pop}, []domain.Node{pop}},
		{"elements", []*domain.Element{em}, []domain.Node{em}},
		{"texts", []domain.Text{"a", "b"}, []domain.Node{domain.Text("a"), domain.Text("b")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := dsl.Scene(dsl.SceneProps{Languages: []string{"en"}, Generate: noop, Children: tt.children})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, sc.Children); diff != "" {
				t.Errorf("children mismatch (-want +got):\n%s", diff)
			}

			p, err := dsl.Popup(dsl.PopupProps{Src: "outer.png", Children: tt.children})
			require.NoError(t, err)
			assert.Len(t, p.Children, len(tt.want))
		})
	}
}

func TestScene_SingleAndAbsentChildren(t *testing.T) {
	sc, err := dsl.Scene(dsl.SceneProps{Languages: []string{"en"}, Generate: noop, Children: "only"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Node{domain.Text("only")}, sc.Children)

	sc, err = dsl.Scene(dsl.SceneProps{Languages: []string{"en"}, Generate: noop})
	require.NoError(t, err)
	assert.Empty(t, sc.Children)
}

func TestScene_RejectsInvalidChildren(t *testing.T) {
	nested := dsl.Must(dsl.Scene(dsl.SceneProps{Languages: []string{"en"}, Generate: noop}))
	page := dsl.Must(dsl.Page(dsl.PageProps{}))

	for _, bad := range []any{42, 3.5, true, nested, page, struct{}{}} {
		_, err := dsl.Scene(dsl.SceneProps{
			Languages: []string{"en"},
			Generate:  noop,
			Children:  []any{"ok", bad},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "child %v", bad)
		assert.Equal(t, domain.KindScene, verr.Parent)
		assert.Equal(t, bad, verr.Child)
	}
}

func TestScene_Languages(t *testing.T) {
	_, err := dsl.Scene(dsl.SceneProps{Generate: noop})
	assert.ErrorIs(t, err, domain.ErrNoLanguages)

	_, err = dsl.Scene(dsl.SceneProps{Languages: []string{"en", " "}, Generate: noop})
	assert.ErrorIs(t, err, domain.ErrEmptyLanguage)

	sc, err := dsl.Scene(dsl.SceneProps{Languages: []string{"en", "fr", "en"}, Generate: noop})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, sc.Languages)
}

func TestScene_RequiresGenerator(t *testing.T) {
	_, err := dsl.Scene(dsl.SceneProps{Languages: []string{"en"}})
	assert.ErrorIs(t, err, domain.ErrNoGenerator)
}

func TestPage_AcceptsOnlyScenes(t *testing.T) {
	s1 := dsl.Must(dsl.Scene(dsl.SceneProps{Languages: []string{"en"}, Generate: noop}))
	s2 := dsl.Must(dsl.Scene(dsl.SceneProps{Languages: []string{"fr"}, Generate: noop}))

	p, err := dsl.Page(dsl.PageProps{Name: "p", Children: []*domain.Scene{s1, s2}})
	require.NoError(t, err)
	require.Len(t, p.Scenes, 2)
	assert.Same(t, s1, p.Scenes[0])
	assert.Same(t, s2, p.Scenes[1])

	badChildren := []any{
		"text is not a scene",
		dsl.Speaker(dsl.SpeakerProps{Src: "s.png"}),
		dsl.Must(dsl.Translation(dsl.TranslationProps{Language: "fr"})),
		7,
	}
	for _, bad := range badChildren {
		_, err := dsl.Page(dsl.PageProps{Children: []any{s1, bad}})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "child %v", bad)
		assert.Equal(t, []domain.Kind{domain.KindScene}, verr.Allowed)
		assert.Contains(t, err.Error(), "Page")
		assert.Contains(t, err.Error(), "Only Scene allowed")
	}
}

func TestPopup_RejectsBoundaries(t *testing.T) {
	tr := dsl.Must(dsl.Translation(dsl.TranslationProps{Language: "fr"}))
	_, err := dsl.Popup(dsl.PopupProps{Src: "p.png", Children: tr})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.KindPopup, verr.Parent)

	inner := dsl.Must(dsl.Popup(dsl.PopupProps{Src: "inner.png", Children: "nested"}))
	outer, err := dsl.Popup(dsl.PopupProps{Src: "outer.png", Children: []any{"x", inner}})
	require.NoError(t, err)
	assert.Equal(t, []domain.Node{domain.Text("x"), inner}, outer.Children)
}

func TestTranslation_RejectsNesting(t *testing.T) {
	inner := dsl.Must(dsl.Translation(dsl.TranslationProps{Language: "fr"}))
	_, err := dsl.Translation(dsl.TranslationProps{Language: "de", Children: inner})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.KindTranslation, verr.Parent)
}

func TestTranslation_Direction(t *testing.T) {
	tests := []struct {
		lang string
		dir  domain.Direction
		want domain.Direction
	}{
		{"arabic", domain.DirectionRTL, domain.DirectionRTL},
		{"arabic", domain.DirectionUnset, domain.DirectionUnset},
		{"ar-Arab", domain.DirectionUnset, domain.DirectionRTL},
		{"he-Hebr", domain.DirectionUnset, domain.DirectionRTL},
		{"fr-Latn", domain.DirectionUnset, domain.DirectionLTR},
		{"ar-Arab", domain.DirectionLTR, domain.DirectionLTR},
	}
	for _, tt := range tests {
		tr, err := dsl.Translation(dsl.TranslationProps{Language: tt.lang, Direction: tt.dir})
		require.NoError(t, err)
		assert.Equal(t, tt.want, tr.Direction, "%s/%q", tt.lang, tt.dir)
	}

	_, err := dsl.Translation(dsl.TranslationProps{Language: "fr", Direction: "up"})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	_, err = dsl.Translation(dsl.TranslationProps{})
	assert.ErrorIs(t, err, domain.ErrEmptyLanguage)
}

func TestElement(t *testing.T) {
	attrs := map[string]string{"class": "loud"}
	el, err := dsl.Element(dsl.ElementProps{Tag: "strong", Attrs: attrs, Children: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "strong", el.Tag)
	assert.Equal(t, []domain.Node{domain.Text("a"), domain.Text("b")}, el.Children)

	attrs["class"] = "quiet"
	assert.Equal(t, "loud", el.Attrs["class"], "attributes are copied at construction")

	_, err = dsl.Element(dsl.ElementProps{})
	assert.ErrorIs(t, err, domain.ErrEmptyTag)

	_, err = dsl.Element(dsl.ElementProps{Tag: "em", Children: dsl.Must(dsl.Translation(dsl.TranslationProps{Language: "fr"}))})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
