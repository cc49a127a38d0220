package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/observability"
	"github.com/aretw0/libretto/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageYAML = `
name: intro
scenes:
  - languages: [en, fr]
    generator:
      name: static
      params:
        outputs:
          en: [{text: hi, startMs: 0}]
          fr: [{text: salut, startMs: 0, durationMs: 300}]
    children: ["hi"]
  - languages: [en]
    children: ["two words"]
`

type failingEngine struct{ err error }

func (f failingEngine) RenderPage(context.Context, *domain.Page, libretto.SceneFunc) (domain.History, error) {
	return nil, f.err
}

func post(t *testing.T, h http.Handler, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestValidate(t *testing.T) {
	h := NewHandler(libretto.New())

	w := post(t, h, "/v1/validate", "application/yaml", pageYAML)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got PageSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, PageSummary{Name: "intro", Scenes: 2, Languages: []string{"en", "fr"}}, got)
}

func TestValidate_JSONBody(t *testing.T) {
	h := NewHandler(libretto.New())
	body := `{"name":"j","scenes":[{"languages":["en"],"children":["hello"]}]}`

	w := post(t, h, "/v1/validate", "application/json; charset=utf-8", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(t, h, "/v1/validate?format=json", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestValidate_InvalidPage(t *testing.T) {
	h := NewHandler(libretto.New())
	body := `
scenes:
  - languages: [en]
    children:
      - {kind: page}
`
	w := post(t, h, "/v1/validate", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid page")
}

func TestValidate_NoGenerator(t *testing.T) {
	h := NewHandler(libretto.New(), WithRegistry(registry.NewRegistry()))
	w := post(t, h, "/v1/validate", "", "scenes: [{languages: [en], children: [hi]}]")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid page")
}

func TestValidate_BodyTooLarge(t *testing.T) {
	h := NewHandler(libretto.New(), WithMaxBodyBytes(16))
	w := post(t, h, "/v1/validate", "", pageYAML)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRender(t *testing.T) {
	h := NewHandler(libretto.New())

	w := post(t, h, "/v1/render", "", pageYAML)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got RenderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "intro", got.Page)
	require.Len(t, got.Outputs, 3)

	assert.Equal(t, 0, got.Outputs[0].Scene)
	assert.Equal(t, "en", got.Outputs[0].Language)
	assert.Equal(t, domain.Output{{Text: "hi", StartMs: 0, DurationMs: domain.UnknownDuration}}, got.Outputs[0].Output)

	assert.Equal(t, "fr", got.Outputs[1].Language)
	assert.Equal(t, int64(300), got.Outputs[1].Output[0].DurationMs)

	assert.Equal(t, 1, got.Outputs[2].Scene)
	assert.Equal(t, "two words", got.Outputs[2].Output[0].Text)

	for _, o := range got.Outputs {
		assert.NotEmpty(t, o.StorageID)
	}
	assert.NotEqual(t, got.Outputs[0].StorageID, got.Outputs[2].StorageID)
}

func TestRender_EngineError(t *testing.T) {
	h := NewHandler(failingEngine{err: errors.New("tts offline")})
	w := post(t, h, "/v1/render", "", pageYAML)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "tts offline")

	h = NewHandler(failingEngine{err: domain.ErrNoGenerator})
	w = post(t, h, "/v1/render", "", pageYAML)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthAndInfo(t *testing.T) {
	h := NewHandler(libretto.New())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/info", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "libretto-http", info["app"])
	assert.Equal(t, []any{"estimate", "static"}, info["generators"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	h := NewHandler(libretto.New(libretto.WithLifecycleHooks(metrics.Hooks())), WithGatherer(reg))

	require.Equal(t, http.StatusOK, post(t, h, "/v1/render", "", pageYAML).Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "libretto_scene_renders_total")
}

func TestMetricsEndpoint_DisabledWithoutGatherer(t *testing.T) {
	h := NewHandler(libretto.New())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(libretto.New())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/render", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
