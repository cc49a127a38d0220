package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes caps the size of an uploaded page document.
const DefaultMaxBodyBytes = 1 << 20

// Engine is the part of libretto.Engine the server needs.
type Engine interface {
	RenderPage(ctx context.Context, page *domain.Page, onScene libretto.SceneFunc) (domain.History, error)
}

// Server serves page validation and rendering over HTTP.
type Server struct {
	Engine   Engine
	Registry *registry.Registry

	gatherer prometheus.Gatherer
	logger   *slog.Logger
	maxBody  int64
}

// Option configures the Server.
type Option func(*Server)

// WithRegistry sets the registry generators are resolved from.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) {
		s.Registry = reg
	}
}

// WithGatherer exposes the given metrics on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes limits request bodies. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		logger:  slog.Default(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Registry == nil {
		s.Registry = libretto.NewRegistry()
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/healthz", s.GetHealth)
	r.Get("/v1/info", s.GetInfo)
	r.Post("/v1/validate", s.Validate)
	r.Post("/v1/render", s.Render)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PageSummary describes a page that compiled.
type PageSummary struct {
	Name      string   `json:"name"`
	Scenes    int      `json:"scenes"`
	Languages []string `json:"languages"`
}

// SceneOutput is one (scene, language) render result.
type SceneOutput struct {
	Scene     int           `json:"scene"`
	Language  string        `json:"language"`
	StorageID string        `json:"storage_id"`
	Output    domain.Output `json:"output"`
}

// RenderResponse is the body of a successful POST /v1/render.
type RenderResponse struct {
	Page    string        `json:"page"`
	Outputs []SceneOutput `json:"outputs"`
}

// Validate handles the POST /v1/validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	page, ok := s.readPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.logger, summarize(page))
}

// Render handles the POST /v1/render request.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	page, ok := s.readPage(w, r)
	if !ok {
		return
	}

	resp := RenderResponse{Page: page.Name, Outputs: []SceneOutput{}}
	history, err := s.Engine.RenderPage(r.Context(), page, func(index int, language string, out domain.Output) {
		resp.Outputs = append(resp.Outputs, SceneOutput{Scene: index, Language: language, Output: out})
	})
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNoGenerator) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Render error: %v", err), status)
		s.logger.Error("Render failed", "page", page.Name, "error", err)
		return
	}

	// History is per language in scene order, as are the callbacks.
	seen := make(map[string]int)
	for i := range resp.Outputs {
		lang := resp.Outputs[i].Language
		if handles := history[lang]; seen[lang] < len(handles) {
			resp.Outputs[i].StorageID = handles[seen[lang]].ID().String()
		}
		seen[lang]++
	}
	writeJSON(w, s.logger, resp)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /v1/info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]any{
		"app":        "libretto-http",
		"version":    strings.TrimSpace(libretto.Version),
		"generators": s.Registry.Names(),
	})
}

func (s *Server) readPage(w http.ResponseWriter, r *http.Request) (*domain.Page, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusRequestEntityTooLarge)
		s.logger.Warn("Request body rejected", "path", r.URL.Path, "error", err)
		return nil, false
	}

	page, err := libretto.ParsePage(data, requestFormat(r), s.Registry)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrNoGenerator) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Invalid page: %v", err), status)
		s.logger.Warn("Invalid page document", "path", r.URL.Path, "error", err)
		return nil, false
	}
	return page, true
}

// requestFormat prefers ?format=, then the Content-Type, then YAML.
func requestFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.ToLower(f)
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json")) {
		return "json"
	}
	return "yaml"
}

func summarize(page *domain.Page) PageSummary {
	langs := page.Languages()
	if langs == nil {
		langs = []string{}
	}
	return PageSummary{Name: page.Name, Scenes: len(page.Scenes), Languages: langs}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
