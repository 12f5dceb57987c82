package markup

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// Resolver renders component tags found in markup.
type Resolver interface {
	RenderComponent(ctx context.Context, tag string, props component.Props, children []*vdom.VNode) (*vdom.VNode, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, tag string, props component.Props, children []*vdom.VNode) (*vdom.VNode, error)

// RenderComponent implements Resolver.
func (f ResolverFunc) RenderComponent(ctx context.Context, tag string, props component.Props, children []*vdom.VNode) (*vdom.VNode, error) {
	return f(ctx, tag, props, children)
}

type executor struct {
	ctx      context.Context
	t        *Template
	eval     *hcl.EvalContext
	resolver Resolver
}

// Execute renders the template with scope as its variables. Component tags
// are rendered through r, which may be nil when the markup uses only HTML
// elements. Several top-level nodes are returned as a fragment.
func (t *Template) Execute(ctx context.Context, scope component.Props, r Resolver) (*vdom.VNode, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	vars := make(map[string]cty.Value, len(scope)+len(t.vars))
	for name, v := range scope {
		cv, err := toCty(v)
		if err != nil {
			return nil, errors.New("E222").WithDetailf("variable %q: %v", name, err)
		}
		vars[name] = cv
	}
	for _, name := range t.vars {
		if _, ok := vars[name]; !ok {
			vars[name] = cty.NullVal(cty.DynamicPseudoType)
		}
	}

	ex := &executor{
		ctx:      ctx,
		t:        t,
		eval:     &hcl.EvalContext{Variables: vars, Functions: functions},
		resolver: r,
	}

	nodes, err := ex.renderAll(t.roots)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return &vdom.VNode{Kind: vdom.KindFragment, Children: nodes}, nil
}

func (ex *executor) renderAll(nodes []*node) ([]*vdom.VNode, error) {
	out := make([]*vdom.VNode, 0, len(nodes))
	for _, n := range nodes {
		if err := ex.ctx.Err(); err != nil {
			return nil, err
		}
		v, err := ex.render(n)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (ex *executor) render(n *node) (*vdom.VNode, error) {
	if n.kind == nodeText {
		v, err := ex.value(n.text, n.line)
		if err != nil {
			return nil, err
		}
		s, err := toText(v)
		if err != nil {
			return nil, ex.evalError(n.line, "text: %v", err)
		}
		if s == "" {
			return nil, nil
		}
		return vdom.Text(s), nil
	}

	if n.when != nil {
		show, err := ex.condition(n)
		if err != nil || !show {
			return nil, err
		}
	}

	children, err := ex.renderAll(n.children)
	if err != nil {
		return nil, err
	}

	if IsComponentTag(n.tag) {
		return ex.renderComponent(n, children)
	}
	return ex.renderElement(n, children)
}

func (ex *executor) condition(n *node) (bool, error) {
	v, err := ex.value(n.when, n.line)
	if err != nil {
		return false, err
	}
	if v.IsNull() {
		return false, nil
	}
	b, cerr := convert.Convert(v, cty.Bool)
	if cerr != nil {
		return false, ex.evalError(n.line, "when on <%s>: %v", n.tag, cerr)
	}
	return b.True(), nil
}

func (ex *executor) renderComponent(n *node, children []*vdom.VNode) (*vdom.VNode, error) {
	if ex.resolver == nil {
		return nil, errors.New("E234").WithDetailf("<%s>: no components are available", n.tag).
			WithLocation("", n.line, 0, ex.t.source)
	}

	props := make(component.Props, len(n.attrs))
	for _, a := range n.attrs {
		v, err := ex.value(a.expr, n.line)
		if err != nil {
			return nil, err
		}
		gv, err := fromCty(v)
		if err != nil {
			return nil, ex.evalError(n.line, "attribute %s on <%s>: %v", a.name, n.tag, err)
		}
		if gv != nil {
			props[a.name] = gv
		}
	}

	return ex.resolver.RenderComponent(ex.ctx, n.tag, props, children)
}

func (ex *executor) renderElement(n *node, children []*vdom.VNode) (*vdom.VNode, error) {
	el := &vdom.VNode{
		Kind:     vdom.KindElement,
		Tag:      n.tag,
		Props:    make(vdom.Props, len(n.attrs)),
		Children: children,
	}

	for _, a := range n.attrs {
		name := a.name
		if len(name) > 2 && strings.EqualFold(name[:2], "on") {
			fn, err := ex.handler(n, a)
			if err != nil {
				return nil, err
			}
			if fn != nil {
				el.Props[strings.ToLower(name)] = fn
			}
			continue
		}

		v, err := ex.value(a.expr, n.line)
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			continue
		}
		gv, err := fromCty(v)
		if err != nil {
			return nil, ex.evalError(n.line, "attribute %s on <%s>: %v", name, n.tag, err)
		}
		switch gv.(type) {
		case string, bool, float64:
		default:
			s, err := toText(v)
			if err != nil {
				return nil, ex.evalError(n.line, "attribute %s on <%s>: %v", name, n.tag, err)
			}
			gv = s
		}
		if name == "key" {
			if s, ok := gv.(string); ok {
				el.Key = s
			}
			continue
		}
		el.Props[name] = gv
	}

	return el, nil
}

// handler evaluates an event attribute. Only a single interpolation of a
// function value is accepted.
func (ex *executor) handler(n *node, a attribute) (any, error) {
	if _, ok := a.expr.(*hclsyntax.TemplateWrapExpr); !ok {
		return nil, ex.evalError(n.line, "event attribute %s on <%s> must bind a function, as in %s=\"${handler}\"", a.name, n.tag, a.name)
	}
	v, err := ex.value(a.expr, n.line)
	if err != nil {
		return nil, err
	}
	gv, err := fromCty(v)
	if err != nil || gv == nil {
		return nil, err
	}
	if reflect.ValueOf(gv).Kind() != reflect.Func {
		return nil, ex.evalError(n.line, "event attribute %s on <%s> is %T, not a function", a.name, n.tag, gv)
	}
	return gv, nil
}

func (ex *executor) value(expr hcl.Expression, line int) (cty.Value, error) {
	v, diags := expr.Value(ex.eval)
	if diags.HasErrors() {
		at := line
		for _, d := range diags {
			if d.Subject != nil {
				at = d.Subject.Start.Line
				break
			}
		}
		return cty.NilVal, errors.New("E222").
			WithDetail(diags.Error()).
			WithLocation("", at, 0, ex.t.source)
	}
	return v, nil
}

func (ex *executor) evalError(line int, format string, args ...any) error {
	return errors.New("E222").
		WithDetailf(format, args...).
		WithLocation("", line, 0, ex.t.source)
}

// collectVariables returns the root names of every traversal in the tree.
func collectVariables(nodes []*node) []string {
	seen := make(map[string]bool)
	var walk func([]*node)
	walk = func(nodes []*node) {
		for _, n := range nodes {
			exprs := []hcl.Expression{n.text, n.when}
			for _, a := range n.attrs {
				exprs = append(exprs, a.expr)
			}
			for _, expr := range exprs {
				if expr == nil {
					continue
				}
				for _, tr := range expr.Variables() {
					seen[tr.RootName()] = true
				}
			}
			walk(n.children)
		}
	}
	walk(nodes)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
