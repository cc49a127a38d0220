package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/libretto/internal/runtime"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene() *domain.Scene {
	return &domain.Scene{
		Languages: []string{"us", "uk", "arabic"},
		Generate:  echo,
		Children: []domain.Node{
			&domain.Speaker{Src: "speaker1.png"},
			domain.Text("Hello, this is   some "),
			&domain.Element{Tag: "strong", Children: []domain.Node{domain.Text("text in the scene.")}},
			&domain.Popup{Src: "popup1.png", Children: []domain.Node{domain.Text("This is a popup.")}},
			&domain.Translation{Language: "arabic", Direction: domain.DirectionRTL, Children: []domain.Node{
				domain.Text("مرحبًا، هذا بعض"),
				&domain.Element{Tag: "strong", Children: []domain.Node{domain.Text("النص")}},
			}},
		},
	}
}

func TestNarrationFor(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     []string
	}{
		{"authoring text", "us", []string{"Hello, this is some", "text in the scene."}},
		{"no translation falls back", "uk", []string{"Hello, this is some", "text in the scene."}},
		{"translation wins", "arabic", []string{"مرحبًا، هذا بعض", "النص"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runtime.NarrationFor(sampleScene(), tt.language))
		})
	}
}

func TestNarrationFor_EmptyScene(t *testing.T) {
	sc := &domain.Scene{Languages: []string{"en"}, Children: []domain.Node{domain.Text("   "), &domain.Speaker{Src: "a.png"}}}
	assert.Empty(t, runtime.NarrationFor(sc, "en"))
}

func TestRenderScene_TranslatesMissingLanguages(t *testing.T) {
	var calls [][]string
	sc := sampleScene()
	sc.Translate = func(_ context.Context, from, to string, tokens ...string) ([]string, error) {
		calls = append(calls, []string{from, to})
		out := make([]string, len(tokens))
		for i, tok := range tokens {
			out[i] = "[" + to + "] " + tok
		}
		return out, nil
	}
	eng := runtime.NewEngine()

	out, err := eng.RenderScene(context.Background(), sc, domain.Payload{Language: "uk"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "[uk] Hello, this is some", out[0].Text)

	_, err = eng.RenderScene(context.Background(), sc, domain.Payload{Language: "us"})
	require.NoError(t, err)
	_, err = eng.RenderScene(context.Background(), sc, domain.Payload{Language: "arabic"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"us", "uk"}}, calls, "only languages without translation are translated")
}

func TestRenderScene_TranslatorErrorUnchanged(t *testing.T) {
	boom := errors.New("quota exceeded")
	sc := sampleScene()
	sc.Translate = func(context.Context, string, string, ...string) ([]string, error) { return nil, boom }

	_, err := runtime.NewEngine().RenderScene(context.Background(), sc, domain.Payload{Language: "uk"})
	if err != boom {
		t.Errorf("expected translator error unchanged, got %v", err)
	}
}
