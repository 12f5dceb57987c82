package middleware

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/bridge"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vangoext").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vangoext",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	callsTotal     *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors. Registering twice on
// the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component renders",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of component render errors",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "code"}),

		callsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bridge_calls_total",
			Help:        "Total number of bridge action calls",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "status"}),

		callDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bridge_call_duration_seconds",
			Help:        "Bridge action call duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),
	}
}

// Renders returns render middleware recording the render metrics.
func (m *Metrics) Renders() host.Middleware {
	return func(next host.Handler) host.Handler {
		return func(ctx context.Context, info host.RenderInfo, rc *component.RenderContext) (*vdom.VNode, error) {
			name := info.Qualified()
			start := time.Now()

			node, err := next(ctx, info, rc)

			m.renderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			status := "success"
			if err != nil {
				status = "error"
				m.renderErrors.WithLabelValues(name, errorCode(err)).Inc()
			}
			m.rendersTotal.WithLabelValues(name, status).Inc()
			return node, err
		}
	}
}

// Caller wraps c so every call records the bridge metrics. The wrapper
// keeps c's availability reporting.
func (m *Metrics) Caller(c bridge.Caller) bridge.Caller {
	return &instrumentedCaller{next: c, m: m}
}

type instrumentedCaller struct {
	next bridge.Caller
	m    *Metrics
}

func (c *instrumentedCaller) Call(ctx context.Context, action string, args ...any) (any, error) {
	start := time.Now()
	result, err := bridge.Invoke(ctx, c.next, action, args...)
	c.m.callDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	c.m.callsTotal.WithLabelValues(action, callStatus(err)).Inc()
	return result, err
}

func (c *instrumentedCaller) Available(action string) bool {
	return bridge.Available(c.next, action)
}

func callStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case bridge.IsUnavailable(err):
		return "unavailable"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// errorCode keeps label cardinality bounded: registered codes or
// "internal".
func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}
