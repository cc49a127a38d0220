package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/libretto/internal/logging"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/ports"
)

// DefaultLockTTL bounds how long a page lock survives a crashed renderer.
const DefaultLockTTL = 5 * time.Minute

// SceneFunc receives each (scene, language) result in render order.
type SceneFunc func(index int, language string, out domain.Output)

// Engine renders pages scene by scene, language by language.
type Engine struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	strict  bool
	store   ports.OutputStore
	locker  ports.Locker
	lockTTL time.Duration
	now     func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStrictTimestamps makes a render fail when a generator returns tokens
// that break the timing contract (see domain.Output.Validate).
func WithStrictTimestamps(strict bool) EngineOption {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithStore persists every (scene, language) result after the callback ran.
func WithStore(store ports.OutputStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker holds a lock on the page name for the whole page render.
func WithLocker(locker ports.Locker) EngineOption {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL sets the page lock expiry. Non-positive values are ignored.
func WithLockTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:  logging.NewNop(),
		lockTTL: DefaultLockTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderScene narrates one scene in payload.Language.
// An error returned by the scene's generator (or translator) is returned
// as-is so callers can match it by identity.
func (e *Engine) RenderScene(ctx context.Context, sc *domain.Scene, p domain.Payload) (domain.Output, error) {
	if sc == nil || sc.Generate == nil {
		return nil, domain.ErrNoGenerator
	}
	if p.Storage == nil {
		p.Storage = domain.NewStorage(0, p.Language)
	}

	tokens, err := e.narration(ctx, sc, p.Language)
	if err != nil {
		return nil, err
	}

	cfg := domain.Config{
		Language:    p.Language,
		WriteToFile: sinkPath(sc.Sink.WriteToFile, p.Storage.Scene(), p.Language),
		OnData:      sc.Sink.OnData,
	}

	start := e.now()
	out, err := sc.Generate(ctx, cfg, tokens...)
	if e.hooks.OnGenerate != nil {
		e.hooks.OnGenerate(ctx, &domain.GenerateEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventGenerate},
			Scene:     p.Storage.Scene(),
			Language:  p.Language,
			Input:     len(tokens),
			Output:    len(out),
			Duration:  e.now().Sub(start),
			Err:       err,
		})
	}
	if err != nil {
		return nil, err
	}

	if e.strict {
		if verr := out.Validate(); verr != nil {
			return nil, fmt.Errorf("%s: %w", sceneLabel(p.Storage.Scene(), p.Language), verr)
		}
	}
	return out, nil
}

// RenderPage walks the page's scenes in order and, for each scene, its
// languages in declared order. Each pair gets a fresh Storage; the last
// Storage of the same language is passed as Previous. Pairs are rendered one
// at a time: onScene runs after the render returns and before the Storage is
// appended to its language's history.
//
// The first failure aborts the walk and no history is returned.
func (e *Engine) RenderPage(ctx context.Context, page *domain.Page, onScene SceneFunc) (domain.History, error) {
	if page == nil {
		return nil, fmt.Errorf("render page: nil page")
	}
	logger := e.logger.With("page", page.Name)

	if e.locker != nil && page.Name != "" {
		unlock, err := e.locker.Lock(ctx, page.Name, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock page %s: %w", page.Name, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release page lock", "error", err)
			}
		}()
	}

	history := make(domain.History)
	for index, sc := range page.Scenes {
		if sc == nil {
			return nil, fmt.Errorf("render page %s: scene %d is nil", page.Name, index)
		}
		for _, lang := range sc.Languages {
			payload := domain.Payload{
				Language: lang,
				Storage:  domain.NewStorage(index, lang),
				Previous: history.Last(lang),
			}
			e.fireScene(ctx, e.hooks.OnSceneEnter, domain.EventSceneEnter, page.Name, payload)
			logger.Debug("Rendering scene", "scene", index, "language", lang)

			out, err := e.RenderScene(ctx, sc, payload)
			if err != nil {
				logger.Error("Scene render failed", "scene", index, "language", lang, "error", err)
				return nil, err
			}

			if onScene != nil {
				onScene(index, lang, out)
			}

			if e.store != nil {
				rec := domain.NewRecord(page.Name, payload, out, e.now())
				if err := e.store.Save(ctx, rec); err != nil {
					return nil, fmt.Errorf("failed to save %s: %w", sceneLabel(index, lang), err)
				}
			}

			history[lang] = append(history[lang], payload.Storage)
			e.fireScene(ctx, e.hooks.OnSceneLeave, domain.EventSceneLeave, page.Name, payload)
		}
	}

	logger.Debug("Page rendered", "scenes", len(page.Scenes), "languages", len(history))
	return history, nil
}

func (e *Engine) fireScene(ctx context.Context, hook func(context.Context, *domain.SceneEvent), typ domain.EventType, page string, p domain.Payload) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.SceneEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: typ, Page: page},
		Scene:     p.Storage.Scene(),
		Language:  p.Language,
		StorageID: p.Storage.ID().String(),
	})
}
