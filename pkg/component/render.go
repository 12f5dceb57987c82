package component

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/notice"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// Renderer produces the node tree for one use of a component. The host
// calls Render with properties already resolved against the component's
// metadata and never needs to know which kind of renderer it holds.
type Renderer interface {
	Render(rc *RenderContext) (*vdom.VNode, error)
}

// MarkupFunc evaluates a markup fragment with the given properties in
// scope. Hosts provide it; markup-delegating components call it.
type MarkupFunc func(source string, scope Props) (*vdom.VNode, error)

// StyleFunc looks up a styling variable by its compiled identifier.
type StyleFunc func(id string) (string, bool)

// RenderContext is everything a component may use while rendering.
type RenderContext struct {
	// Name is the qualified name of the component being rendered.
	Name string

	// Props are the resolved property values.
	Props Props

	// Children are the nodes nested inside the component's tag, if any.
	Children []*vdom.VNode

	// Markup evaluates markup fragments. Nil when the host has no
	// markup evaluator.
	Markup MarkupFunc

	// Styles resolves styling variables.
	Styles StyleFunc

	// Alerts receives alerts raised by the component.
	Alerts notice.Emitter

	ctx    context.Context
	logger *slog.Logger
}

// NewRenderContext creates a render context bound to ctx.
func NewRenderContext(ctx context.Context, name string, props Props, logger *slog.Logger) *RenderContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderContext{
		Name:   name,
		Props:  props,
		ctx:    ctx,
		logger: logger.With("component", name),
	}
}

// Context returns the context of the render. Components pass it to
// fire-and-forget work started from the render.
func (rc *RenderContext) Context() context.Context {
	if rc.ctx == nil {
		return context.Background()
	}
	return rc.ctx
}

// WithContext returns a shallow copy of rc bound to ctx.
func (rc *RenderContext) WithContext(ctx context.Context) *RenderContext {
	if ctx == nil {
		panic("component: nil context")
	}
	rc2 := new(RenderContext)
	*rc2 = *rc
	rc2.ctx = ctx
	return rc2
}

// Logger returns a logger annotated with the component name.
func (rc *RenderContext) Logger() *slog.Logger {
	if rc.logger == nil {
		return slog.Default()
	}
	return rc.logger
}

// Style returns the styling variable for id, or "" when it is not defined.
func (rc *RenderContext) Style(id string) string {
	if rc.Styles == nil {
		return ""
	}
	v, _ := rc.Styles(id)
	return v
}

// Alert raises a user-visible alert through the host.
func (rc *RenderContext) Alert(level notice.Level, message string) {
	if rc.Alerts == nil {
		rc.Logger().Warn("alert dropped, host has no alert channel", "level", level, "message", message)
		return
	}
	notice.Show(rc.Alerts, level, message)
}

// MarkupRenderer renders a component by handing its markup fragment to the
// host evaluator. It never interprets properties itself.
type MarkupRenderer struct {
	source string
}

// Source returns the markup fragment.
func (r *MarkupRenderer) Source() string { return r.source }

// Render implements Renderer.
func (r *MarkupRenderer) Render(rc *RenderContext) (*vdom.VNode, error) {
	if rc.Markup == nil {
		return nil, errors.New("E222").WithDetailf("%s: host has no markup evaluator", rc.Name)
	}
	return rc.Markup(r.source, rc.Props)
}

// RenderFunc is the signature of a native component.
type RenderFunc func(rc *RenderContext) *vdom.VNode

// NativeRenderer renders a component by calling a Go function.
type NativeRenderer struct {
	fn RenderFunc
}

// Render implements Renderer. A panic in the render function is contained
// and returned as an error.
func (r *NativeRenderer) Render(rc *RenderContext) (node *vdom.VNode, err error) {
	defer func() {
		if p := recover(); p != nil {
			rc.Logger().Error("component render panic",
				"panic", p,
				"stack", string(debug.Stack()),
			)
			node = nil
			err = errors.New("E220").WithDetailf("%s: %v", rc.Name, p)
		}
	}()
	return r.fn(rc), nil
}

// RendererKind names the renderer variant for documentation output.
func RendererKind(r Renderer) string {
	switch r.(type) {
	case *MarkupRenderer:
		return "markup"
	case *NativeRenderer:
		return "native"
	default:
		return fmt.Sprintf("%T", r)
	}
}
