package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/libretto"
	"github.com/aretw0/libretto/internal/config"
	"github.com/aretw0/libretto/internal/logging"
	"github.com/aretw0/libretto/pkg/adapters/file"
	"github.com/aretw0/libretto/pkg/adapters/memory"
	"github.com/aretw0/libretto/pkg/adapters/openai"
	"github.com/aretw0/libretto/pkg/adapters/redis"
	"github.com/aretw0/libretto/pkg/generate"
	"github.com/aretw0/libretto/pkg/observability"
	"github.com/aretw0/libretto/pkg/persistence/middleware"
	"github.com/aretw0/libretto/pkg/ports"
	"github.com/aretw0/libretto/pkg/registry"
)

// Stack is everything a command needs to compile and render pages.
type Stack struct {
	Engine   *libretto.Engine
	Registry *registry.Registry
	Store    ports.OutputStore
	Metrics  *prometheus.Registry
	Logger   *slog.Logger

	opts    []libretto.Option
	closers []func() error
}

// engineOptions returns the options the stack's engine was built with,
// followed by extra.
func (s *Stack) engineOptions(extra ...libretto.Option) []libretto.Option {
	return slices.Concat(s.opts, extra)
}

// Close releases backend connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewLogger builds the logger described by cfg.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}

// NewRegistry returns the built-in generators, plus the OpenAI speech
// generator and translator when an API key is configured.
func NewRegistry(cfg config.Config) *registry.Registry {
	reg := registry.NewRegistry()
	generate.Register(reg, cfg.WordsPerMinute)
	if cfg.OpenAIKey != "" {
		var opts []openai.Option
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		openai.Register(reg, cfg.OpenAIKey, opts...)
	}
	return reg
}

// NewStack wires the engine from cfg: logger, registry, output store and
// (for redis) page locking, plus Prometheus metrics bound to the lifecycle
// hooks.
func NewStack(ctx context.Context, cfg config.Config) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	s := &Stack{
		Registry: NewRegistry(cfg),
		Metrics:  prometheus.NewRegistry(),
		Logger:   logger,
	}
	metrics := observability.NewMetrics(s.Metrics)

	engineOpts := []libretto.Option{
		libretto.WithLogger(logger),
		libretto.WithLifecycleHooks(observability.Chain(
			observability.LoggingHooks(logger),
			metrics.Hooks(),
		)),
	}

	switch cfg.Store {
	case config.StoreMemory:
		s.Store = memory.NewStore()
		engineOpts = append(engineOpts, libretto.WithLocker(memory.NewLocker()))
	case config.StoreFile:
		s.Store = file.New(filepath.Join(cfg.StoreDir, "outputs"))
		engineOpts = append(engineOpts, libretto.WithLocker(memory.NewLocker()))
	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.RedisTTL))
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		s.Store = store
		s.closers = append(s.closers, store.Close)
		engineOpts = append(engineOpts, libretto.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)))
	}
	if s.Store != nil {
		keys, err := cfg.EncryptionKeys()
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			s.Store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
				ActiveKey:    keys[0],
				FallbackKeys: keys[1:],
			})(s.Store)
		}
		engineOpts = append(engineOpts, libretto.WithStore(s.Store))
	}

	s.opts = engineOpts
	s.Engine = libretto.New(engineOpts...)
	logger.Debug("Engine ready", "store", cfg.Store, "generators", s.Registry.Names())
	return s, nil
}
