package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-ext/pkg/bridge"
)

func TestMetricsRenders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	e := testEngine(t, m.Renders())

	require.NoError(t, render(t, e, "Outer"))
	require.Error(t, render(t, e, "Broken"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("T.Outer", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("T.Inner", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("T.Broken", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.renderErrors.WithLabelValues("T.Broken", "E220")))

	count, err := testutil.GatherAndCount(reg, "test_render_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 3, count, "one histogram series per component")
}

func TestMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))
	require.Panics(t, func() { NewMetrics(WithRegistry(reg)) })
}

func TestMetricsCaller(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	funcs := bridge.Funcs{
		"Greet": func(ctx context.Context, args []any) (any, error) { return "hi", nil },
		"Fail":  func(ctx context.Context, args []any) (any, error) { return nil, errors.New("nope") },
		"Slow": func(ctx context.Context, args []any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	c := m.Caller(funcs)

	require.True(t, bridge.Available(c, "Greet"))
	require.False(t, bridge.Available(c, "Missing"))

	res, err := c.Call(context.Background(), "Greet")
	require.NoError(t, err)
	require.Equal(t, "hi", res)

	_, err = c.Call(context.Background(), "Fail")
	require.Error(t, err)

	_, err = c.Call(context.Background(), "Missing")
	require.True(t, bridge.IsUnavailable(err))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Call(ctx, "Slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("Greet", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("Fail", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("Missing", "unavailable")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("Slow", "timeout")))
}
