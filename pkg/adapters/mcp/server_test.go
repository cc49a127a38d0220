package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageYAML = `
name: intro
scenes:
  - languages: [en, fr]
    children:
      - "Hello there."
      - {kind: translation, language: fr, children: ["Bonjour."]}
`

type failingEngine struct{ err error }

func (f failingEngine) RenderPage(context.Context, *domain.Page, libretto.SceneFunc) (domain.History, error) {
	return nil, f.err
}

func TestHandleValidate(t *testing.T) {
	s := NewServer(libretto.New(), nil)

	got, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, PageArgs{Document: pageYAML})
	require.NoError(t, err)
	assert.Equal(t, ValidateResponse{Name: "intro", Scenes: 1, Languages: []string{"en", "fr"}}, got)
}

func TestHandleValidate_Errors(t *testing.T) {
	s := NewServer(libretto.New(), nil)

	_, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, PageArgs{})
	assert.ErrorContains(t, err, "document is required")

	_, err = s.handleValidate(context.Background(), mcp.CallToolRequest{}, PageArgs{
		Document: `{"scenes":[{"languages":[]}]}`,
		Format:   "json",
	})
	assert.ErrorIs(t, err, domain.ErrNoLanguages)
}

func TestHandleRender(t *testing.T) {
	s := NewServer(libretto.New(), nil)

	got, err := s.handleRender(context.Background(), mcp.CallToolRequest{}, PageArgs{Document: pageYAML})
	require.NoError(t, err)
	assert.Equal(t, "intro", got.Page)
	require.Len(t, got.Outputs, 2)
	assert.Equal(t, "en", got.Outputs[0].Language)
	assert.Equal(t, "Hello there.", got.Outputs[0].Output[0].Text)
	assert.Equal(t, "fr", got.Outputs[1].Language)
	assert.Equal(t, "Bonjour.", got.Outputs[1].Output[0].Text)
}

func TestHandleRender_EngineError(t *testing.T) {
	boom := errors.New("boom")
	s := NewServer(failingEngine{err: boom}, nil)

	_, err := s.handleRender(context.Background(), mcp.CallToolRequest{}, PageArgs{Document: pageYAML})
	assert.ErrorIs(t, err, boom)
}

func TestHandleOutline(t *testing.T) {
	s := NewServer(libretto.New(), nil)

	req := mcp.CallToolRequest{}
	req.Params.Name = "outline_page"
	req.Params.Arguments = map[string]any{"document": pageYAML}

	res, err := s.handleOutline(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "# intro")
	assert.Contains(t, text.Text, "Bonjour.")
}

func TestHandleOutline_InvalidPage(t *testing.T) {
	s := NewServer(libretto.New(), nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"document": "scenes: [{languages: [en], children: [{kind: bogus}]}]"}

	res, err := s.handleOutline(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
