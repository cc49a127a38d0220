package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/libretto/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and failed
// generations at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSceneEnter: func(ctx context.Context, e *domain.SceneEvent) {
			logger.DebugContext(ctx, "scene_enter", "page", e.Page, "scene", e.Scene, "language", e.Language, "storage", e.StorageID)
		},
		OnSceneLeave: func(ctx context.Context, e *domain.SceneEvent) {
			logger.DebugContext(ctx, "scene_leave", "page", e.Page, "scene", e.Scene, "language", e.Language)
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "generate", "scene", e.Scene, "language", e.Language, "duration", e.Duration, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "generate", "scene", e.Scene, "language", e.Language,
				"input", e.Input, "output", e.Output, "duration", e.Duration)
		},
	}
}

// Chain merges hook sets; each event is delivered to every set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnSceneEnter = chainScene(out.OnSceneEnter, h.OnSceneEnter)
		out.OnSceneLeave = chainScene(out.OnSceneLeave, h.OnSceneLeave)
		out.OnGenerate = chainGenerate(out.OnGenerate, h.OnGenerate)
	}
	return out
}

func chainScene(a, b func(context.Context, *domain.SceneEvent)) func(context.Context, *domain.SceneEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.SceneEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainGenerate(a, b func(context.Context, *domain.GenerateEvent)) func(context.Context, *domain.GenerateEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.GenerateEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
