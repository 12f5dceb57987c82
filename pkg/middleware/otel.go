package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vango-ext/pkg/bridge"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// Default tracer name.
const defaultTracerName = "vangoext"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vangoext").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludeProps records the names of the properties a component was
	// rendered with. Values are never recorded.
	IncludeProps bool

	// Filter determines which renders to trace. If nil, all are traced.
	Filter func(info host.RenderInfo) bool

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeProps enables recording property names on spans.
func WithIncludeProps(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeProps = include
	}
}

// WithRenderFilter sets a filter function for renders.
func WithRenderFilter(filter func(info host.RenderInfo) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

func newOTelConfig(opts []OTelOption) OTelConfig {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}
	return config
}

// OpenTelemetry returns render middleware that traces every component
// render.
func OpenTelemetry(opts ...OTelOption) host.Middleware {
	config := newOTelConfig(opts)

	return func(next host.Handler) host.Handler {
		return func(ctx context.Context, info host.RenderInfo, rc *component.RenderContext) (*vdom.VNode, error) {
			if config.Filter != nil && !config.Filter(info) {
				return next(ctx, info, rc)
			}

			attrs := []attribute.KeyValue{
				attribute.String("vangoext.namespace", info.Namespace),
				attribute.String("vangoext.component", info.Name),
				attribute.String("vangoext.renderer", info.Kind),
			}
			if config.IncludeProps {
				names := make([]string, 0, len(rc.Props))
				for name := range rc.Props {
					names = append(names, name)
				}
				attrs = append(attrs, attribute.StringSlice("vangoext.props", names))
			}

			spanCtx, span := config.tracer.Start(ctx, "render "+info.Qualified(),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			node, err := next(spanCtx, info, rc)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return node, err
		}
	}
}

// TraceCaller wraps c so every call runs in a client span.
func TraceCaller(c bridge.Caller, opts ...OTelOption) bridge.Caller {
	config := newOTelConfig(opts)
	return &tracedCaller{next: c, tracer: config.tracer}
}

type tracedCaller struct {
	next   bridge.Caller
	tracer trace.Tracer
}

func (c *tracedCaller) Call(ctx context.Context, action string, args ...any) (any, error) {
	ctx, span := c.tracer.Start(ctx, "bridge "+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("vangoext.action", action),
			attribute.Int("vangoext.args", len(args)),
		),
	)
	defer span.End()

	result, err := bridge.Invoke(ctx, c.next, action, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return result, err
}

func (c *tracedCaller) Available(action string) bool {
	return bridge.Available(c.next, action)
}
