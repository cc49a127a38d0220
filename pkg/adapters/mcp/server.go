package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/export"
	"github.com/aretw0/libretto/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PageArgs carries a page document inline.
type PageArgs struct {
	Document string `json:"document"`
	Format   string `json:"format"`
}

// ValidateResponse summarizes a page that compiled.
type ValidateResponse struct {
	Name      string   `json:"name" jsonschema_description:"Page name"`
	Scenes    int      `json:"scenes" jsonschema_description:"Number of scenes"`
	Languages []string `json:"languages" jsonschema_description:"Declared languages in first appearance order"`
}

// SceneOutput is one (scene, language) render result.
type SceneOutput struct {
	Scene    int           `json:"scene"`
	Language string        `json:"language"`
	Output   domain.Output `json:"output"`
}

// RenderResponse lists every output of a page render in render order.
type RenderResponse struct {
	Page    string        `json:"page" jsonschema_description:"Page name"`
	Outputs []SceneOutput `json:"outputs" jsonschema_description:"Outputs in scene, then language order"`
}

// Engine is the part of libretto.Engine the MCP server needs.
type Engine interface {
	RenderPage(ctx context.Context, page *domain.Page, onScene libretto.SceneFunc) (domain.History, error)
}

// Server wraps the libretto Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	registry  *registry.Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil registry means the
// built-in generators.
func NewServer(engine Engine, reg *registry.Registry) *Server {
	if reg == nil {
		reg = libretto.NewRegistry()
	}
	s := &Server{
		engine:    engine,
		registry:  reg,
		mcpServer: server.NewMCPServer("libretto-mcp", strings.TrimSpace(libretto.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx
// is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func documentOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("document", mcp.Required(), mcp.Description("The page document (YAML or JSON)")),
		mcp.WithString("format", mcp.Description("Document format: yaml (default) or json"), mcp.Enum("yaml", "json")),
	}
}

func (s *Server) registerTools() {
	// TOOL: validate_page
	validateTool := mcp.NewTool("validate_page", append(documentOptions(),
		mcp.WithDescription("Compile a page document and report its scenes and languages, or the first composition error."),
		mcp.WithOutputSchema[ValidateResponse](),
	)...)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: render_page
	renderTool := mcp.NewTool("render_page", append(documentOptions(),
		mcp.WithDescription("Render every scene of a page in every declared language and return the timed tokens."),
		mcp.WithOutputSchema[RenderResponse](),
	)...)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))

	// TOOL: outline_page
	s.mcpServer.AddTool(mcp.NewTool("outline_page", append(documentOptions(),
		mcp.WithDescription("Describe a page as a Markdown outline with the narration of each language."),
	)...), s.handleOutline)
}

func (s *Server) parse(args PageArgs) (*domain.Page, error) {
	if strings.TrimSpace(args.Document) == "" {
		return nil, errors.New("document is required")
	}
	format := strings.ToLower(args.Format)
	if format == "" {
		format = "yaml"
	}
	return libretto.ParsePage([]byte(args.Document), format, s.registry)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args PageArgs) (ValidateResponse, error) {
	page, err := s.parse(args)
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid page: %w", err)
	}
	langs := page.Languages()
	if langs == nil {
		langs = []string{}
	}
	return ValidateResponse{Name: page.Name, Scenes: len(page.Scenes), Languages: langs}, nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args PageArgs) (RenderResponse, error) {
	page, err := s.parse(args)
	if err != nil {
		return RenderResponse{}, fmt.Errorf("invalid page: %w", err)
	}

	resp := RenderResponse{Page: page.Name, Outputs: []SceneOutput{}}
	_, err = s.engine.RenderPage(ctx, page, func(index int, language string, out domain.Output) {
		resp.Outputs = append(resp.Outputs, SceneOutput{Scene: index, Language: language, Output: out})
	})
	if err != nil {
		slog.Error("MCP Render: failed", "page", page.Name, "error", err)
		return RenderResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return resp, nil
}

func (s *Server) handleOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args PageArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	page, err := s.parse(args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid page: %v", err)), nil
	}
	return mcp.NewToolResultText(export.Markdown(page)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: libretto://generators
	s.mcpServer.AddResource(mcp.NewResource("libretto://generators", "Registered Generators",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.registry.Names())
		if err != nil {
			return nil, fmt.Errorf("failed to list generators: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "libretto://generators",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
