package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/libretto/pkg/domain"
)

// Metrics records render activity as Prometheus collectors.
type Metrics struct {
	SceneRenders *prometheus.CounterVec
	Generation   *prometheus.HistogramVec
	Tokens       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SceneRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libretto_scene_renders_total",
				Help: "Total number of scene renders by language and outcome",
			},
			[]string{"language", "status"},
		),
		Generation: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "libretto_generation_seconds",
				Help:    "Duration of generator calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"language"},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "libretto_tokens_total",
				Help: "Total number of narration tokens produced",
			},
			[]string{"language"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.SceneRenders, m.Generation, m.Tokens)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.SceneRenders.WithLabelValues(e.Language, status).Inc()
			m.Generation.WithLabelValues(e.Language).Observe(e.Duration.Seconds())
			m.Tokens.WithLabelValues(e.Language).Add(float64(e.Output))
		},
	}
}
