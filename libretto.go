package libretto

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/libretto/internal/compiler"
	"github.com/aretw0/libretto/internal/logging"
	"github.com/aretw0/libretto/internal/runtime"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/generate"
	"github.com/aretw0/libretto/pkg/ports"
	"github.com/aretw0/libretto/pkg/registry"
)

// SceneFunc receives each (scene, language) output in render order.
type SceneFunc = runtime.SceneFunc

// Engine is the high-level entry point for the libretto library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	store   ports.OutputStore
	locker  ports.Locker
	lockTTL time.Duration
	strict  bool
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore persists every (scene, language) output.
func WithStore(store ports.OutputStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLocker serialises renders of the same page name.
func WithLocker(locker ports.Locker) Option {
	return func(o *options) {
		o.locker = locker
	}
}

// WithLockTTL sets how long a page lock lives without being released.
func WithLockTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.lockTTL = ttl
	}
}

// WithStrictTimestamps rejects generator output with decreasing offsets or
// invalid durations.
func WithStrictTimestamps(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(o.logger),
		runtime.WithLifecycleHooks(o.hooks),
		runtime.WithStrictTimestamps(o.strict),
		runtime.WithLockTTL(o.lockTTL),
	}
	if o.store != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithStore(o.store))
	}
	if o.locker != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithLocker(o.locker))
	}

	return &Engine{
		runtime: runtime.NewEngine(runtimeOpts...),
		logger:  o.logger,
	}
}

// RenderScene narrates one scene in payload.Language. A nil payload.Storage
// is replaced by a fresh handle. The generator's error is returned unchanged.
func (e *Engine) RenderScene(ctx context.Context, scene *domain.Scene, payload domain.Payload) (domain.Output, error) {
	return e.runtime.RenderScene(ctx, scene, payload)
}

// RenderPage renders every scene in every declared language, in order, and
// returns each language's storage handles. onScene may be nil.
func (e *Engine) RenderPage(ctx context.Context, page *domain.Page, onScene SceneFunc) (domain.History, error) {
	return e.runtime.RenderPage(ctx, page, onScene)
}

// NewRegistry returns a registry holding the built-in generators
// ("static", "estimate").
func NewRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	generate.Register(reg, generate.DefaultWPM)
	return reg
}

// LoadOption adjusts how page documents are compiled.
type LoadOption = compiler.Option

// WithDefaultSink sets the file pattern of scenes that declare no sink.
// Besides "{scene}" and "{language}", the pattern may use "{page}".
func WithDefaultSink(pattern string) LoadOption {
	return compiler.WithDefaultSink(pattern)
}

// WithMaxDocumentSize rejects documents larger than n bytes.
func WithMaxDocumentSize(n int) LoadOption {
	return compiler.WithMaxSize(n)
}

// LoadPage compiles the YAML or JSON page document at path. Scenes that name
// no generator fall back to "estimate" when reg has one.
func LoadPage(path string, reg *registry.Registry, opts ...LoadOption) (*domain.Page, error) {
	return newCompiler(reg, opts).CompileFile(path)
}

// ParsePage compiles a page document held in memory. format is "yaml" or
// "json".
func ParsePage(data []byte, format string, reg *registry.Registry, opts ...LoadOption) (*domain.Page, error) {
	return newCompiler(reg, opts).Compile(data, compiler.Format(format))
}

func newCompiler(reg *registry.Registry, extra []LoadOption) *compiler.Compiler {
	if reg == nil {
		reg = NewRegistry()
	}
	var opts []compiler.Option
	if slices.Contains(reg.Names(), "estimate") {
		opts = append(opts, compiler.WithDefaultGenerator("estimate"))
	}
	return compiler.New(reg, append(opts, extra...)...)
}
