package host

import (
	"context"
	"log/slog"

	"github.com/patrickmn/go-cache"

	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/notice"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// RenderInfo identifies the component being rendered.
type RenderInfo struct {
	Namespace string
	Name      string
	Kind      string

	Registration *component.Registration
}

// Qualified returns Namespace.Name.
func (i RenderInfo) Qualified() string { return i.Namespace + "." + i.Name }

// Handler renders one component invocation.
type Handler func(ctx context.Context, info RenderInfo, rc *component.RenderContext) (*vdom.VNode, error)

// Middleware wraps component renders.
type Middleware func(next Handler) Handler

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTheme sets the styling variables components read through
// RenderContext.Style.
func WithTheme(vars map[string]string) Option {
	return func(e *Engine) {
		e.theme = make(map[string]string, len(vars))
		for k, v := range vars {
			e.theme[k] = v
		}
	}
}

// WithAlerts sets the channel component alerts are dispatched to.
func WithAlerts(em notice.Emitter) Option {
	return func(e *Engine) {
		e.alerts = em
	}
}

// WithMiddleware appends render middleware. The first middleware given is
// the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Engine) {
		e.middleware = append(e.middleware, mw...)
	}
}

// WithTemplateCache sets the cache used for compiled markup. Markup of
// loaded components never expires; other markup uses the cache's default
// expiration.
func WithTemplateCache(c *cache.Cache) Option {
	return func(e *Engine) {
		if c != nil {
			e.templates = c
		}
	}
}

// WithMaxDepth bounds component nesting during a single render.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}
