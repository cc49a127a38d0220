package libretto_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/pkg/adapters/memory"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/dsl"
	"github.com/aretw0/libretto/pkg/generate"
	"github.com/aretw0/libretto/pkg/registry"
)

func TestEngine_RenderPage_Sample(t *testing.T) {
	gen := generate.Static(map[string]domain.Output{
		"en": {{Text: "hi", StartMs: 0, DurationMs: domain.UnknownDuration}},
	})
	page := dsl.Must(dsl.Page(dsl.PageProps{
		Name: "p",
		Children: dsl.Must(dsl.Scene(dsl.SceneProps{
			Languages: []string{"en"},
			Generate:  gen,
			Children:  "hi",
		})),
	}))

	var got []string
	history, err := libretto.New().RenderPage(context.Background(), page, func(i int, lang string, out domain.Output) {
		got = append(got, lang)
		if i != 0 || len(out) != 1 || out[0].Text != "hi" || out[0].DurationMs != -1 {
			t.Errorf("unexpected callback (%d, %s, %+v)", i, lang, out)
		}
	})
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(got))
	}
	if len(history) != 1 || len(history["en"]) != 1 {
		t.Fatalf("expected {en: [storage]}, got %v", history)
	}
}

func TestEngine_RenderPage_PropagatesGeneratorError(t *testing.T) {
	boom := errors.New("tts unavailable")
	failing := func(context.Context, domain.Config, ...string) (domain.Output, error) { return nil, boom }

	page, err := dsl.NewPage("p").
		Scene("en").Generate(generate.Estimate(150)).Text("one").Page().
		Scene("en").Generate(failing).Text("two").Page().
		Build()
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	history, err := libretto.New().RenderPage(context.Background(), page, func(int, string, domain.Output) { calls++ })
	if err != boom {
		t.Fatalf("expected generator error unchanged, got %v", err)
	}
	if history != nil {
		t.Errorf("expected no history on failure, got %v", history)
	}
	if calls != 1 {
		t.Errorf("expected 1 callback before failure, got %d", calls)
	}
}

func TestEngine_WithStore(t *testing.T) {
	store := memory.NewStore()
	page, err := dsl.NewPage("stored").
		Scene("en", "fr").Generate(generate.Estimate(150)).Text("hello").Page().
		Build()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := libretto.New(libretto.WithStore(store)).RenderPage(context.Background(), page, nil); err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	records, err := store.List(context.Background(), "stored")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Language != "en" || records[1].Language != "fr" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestLoadPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tour.yaml")
	doc := `
scenes:
  - languages: [en, ar]
    children:
      - "Welcome."
      - {kind: translation, language: ar, children: ["أهلا"]}
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	page, err := libretto.LoadPage(path, nil)
	if err != nil {
		t.Fatalf("LoadPage failed: %v", err)
	}
	if page.Name != "tour" {
		t.Errorf("expected name from file, got %q", page.Name)
	}
	tr := page.Scenes[0].Translations("ar")
	if len(tr) != 1 || tr[0].Direction != domain.DirectionRTL {
		t.Errorf("expected inferred rtl translation, got %+v", tr)
	}
}

func TestParsePage_RegistryWithoutEstimate(t *testing.T) {
	_, err := libretto.ParsePage([]byte("scenes: [{languages: [en], children: [hi]}]"), "yaml", registry.NewRegistry())
	if !errors.Is(err, domain.ErrNoGenerator) {
		t.Errorf("expected ErrNoGenerator, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	if strings.TrimSpace(libretto.Version) == "" {
		t.Error("Version should not be empty")
	}
}
