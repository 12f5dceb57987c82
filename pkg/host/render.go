package host

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/markup"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

type depthKey struct{}

// render is the innermost handler. Markup evaluated by the component runs
// under the handler's context so nested renders see values middleware
// added, such as the current span.
func (e *Engine) render(ctx context.Context, info RenderInfo, rc *component.RenderContext) (*vdom.VNode, error) {
	rc = rc.WithContext(ctx)
	rc.Markup = func(source string, scope component.Props) (*vdom.VNode, error) {
		return e.RenderMarkup(ctx, source, scope)
	}
	return info.Registration.Renderer().Render(rc)
}

// Render renders the component a tag refers to with the given properties.
func (e *Engine) Render(ctx context.Context, tag string, props component.Props) (*vdom.VNode, error) {
	return e.renderComponent(ctx, tag, props, nil)
}

// RenderMarkup evaluates a markup fragment with scope in its variables.
// Component tags in the fragment are rendered through the engine.
func (e *Engine) RenderMarkup(ctx context.Context, source string, scope component.Props) (*vdom.VNode, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	t, err := e.template(source)
	if err != nil {
		return nil, err
	}
	return t.Execute(ctx, scope, markup.ResolverFunc(e.renderComponent))
}

func (e *Engine) renderComponent(ctx context.Context, tag string, props component.Props, children []*vdom.VNode) (*vdom.VNode, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	depth, _ := ctx.Value(depthKey{}).(int)
	if depth >= e.maxDepth {
		return nil, errors.New("E222").WithDetailf("<%s>: component nesting deeper than %d", tag, e.maxDepth)
	}

	e.mu.RLock()
	qualified, reg, err := e.resolveLocked(tag)
	var ns string
	if err == nil {
		ns = e.table[qualified].namespace
	}
	e.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	resolved, err := reg.Metadata().Resolve(props)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", qualified, err)
	}

	ctx = context.WithValue(ctx, depthKey{}, depth+1)

	rc := component.NewRenderContext(ctx, qualified, resolved, e.logger)
	rc.Children = children
	rc.Styles = e.Style
	rc.Alerts = e.alerts

	info := RenderInfo{
		Namespace: ns,
		Name:      reg.Name(),
		Kind:      component.RendererKind(reg.Renderer()),

		Registration: reg,
	}
	node, err := e.handler(ctx, info, rc)
	if err != nil {
		e.logger.Debug("component render failed", "component", qualified, "error", err)
		return nil, err
	}
	return node, nil
}

func templateKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// template returns the compiled form of source, compiling on first use.
// A newly compiled template expires after the cache's default TTL; Add
// leaves an entry pinned by a concurrent load in place.
func (e *Engine) template(source string) (*markup.Template, error) {
	key := templateKey(source)
	if cached, ok := e.templates.Get(key); ok {
		return cached.(*markup.Template), nil
	}
	t, err := markup.Compile(source)
	if err != nil {
		return nil, err
	}
	_ = e.templates.Add(key, t, cache.DefaultExpiration)
	return t, nil
}

// TemplateCount returns the number of compiled markup fragments held in
// the cache.
func (e *Engine) TemplateCount() int {
	return e.templates.ItemCount()
}
