// Package middleware provides observability for component renders and
// bridge calls.
//
// This package includes:
//   - OpenTelemetry tracing of component renders and bridge calls
//   - Prometheus metrics for the same
//
// # OpenTelemetry
//
// OpenTelemetry wraps every component render in a span named after the
// qualified component. Nested components produce child spans.
//
//	engine := host.New(
//	    host.WithMiddleware(
//	        middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	    ),
//	)
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main() before rendering:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// # Prometheus
//
// Metrics collected:
//   - vangoext_renders_total: renders by component and status
//   - vangoext_render_duration_seconds: render duration by component
//   - vangoext_render_errors_total: render errors by component and error code
//   - vangoext_bridge_calls_total: bridge calls by action and status
//   - vangoext_bridge_call_duration_seconds: bridge call duration by action
//
// Collectors are registered on the configured registry:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	engine := host.New(host.WithMiddleware(m.Renders()))
//	caller := m.Caller(bridgeClient)
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package middleware
