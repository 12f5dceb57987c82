package markup

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// componentRoot is the root element of a markup component definition.
const componentRoot = "Component"

type nodeKind uint8

const (
	nodeElement nodeKind = iota
	nodeText
)

type node struct {
	kind     nodeKind
	tag      string
	attrs    []attribute
	when     hcl.Expression
	children []*node
	text     hcl.Expression
	line     int
}

type attribute struct {
	name string
	expr hcl.Expression
}

// Template is a compiled markup fragment.
type Template struct {
	name   string
	source string
	roots  []*node
	vars   []string
}

// Name returns the component name when the fragment is a component
// definition, or "".
func (t *Template) Name() string { return t.name }

// Source returns the markup the template was compiled from.
func (t *Template) Source() string { return t.source }

// Variables returns the names the template references, sorted.
func (t *Template) Variables() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// Compile parses markup into a template.
func Compile(source string) (*Template, error) {
	dec := xml.NewDecoder(strings.NewReader(source))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity

	var (
		roots []*node
		stack []*node
	)
	appendNode := func(n *node) {
		if len(stack) == 0 {
			roots = append(roots, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
	}

	for {
		line, _ := dec.InputPos()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err, source)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{kind: nodeElement, tag: tagName(t.Name), line: line}
			for _, a := range t.Attr {
				expr, err := parseTemplate(a.Value, line, source)
				if err != nil {
					return nil, err
				}
				name := tagName(a.Name)
				if name == "when" {
					n.when = expr
					continue
				}
				n.attrs = append(n.attrs, attribute{name: name, expr: expr})
			}
			stack = append(stack, n)

		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			appendNode(n)

		case xml.CharData:
			text := trimLayout(string(t))
			if text == "" {
				continue
			}
			expr, err := parseTemplate(text, line, source)
			if err != nil {
				return nil, err
			}
			appendNode(&node{kind: nodeText, text: expr, line: line})
		}
	}

	if len(roots) > 1 {
		for _, r := range roots {
			if r.kind == nodeElement && r.tag == componentRoot {
				return nil, errors.New("E221").
					WithDetail(componentRoot+" must be the only root").
					WithLocation("", r.line, 0, source)
			}
		}
	}

	tmpl := &Template{source: source, roots: roots}

	if len(roots) == 1 && roots[0].kind == nodeElement && roots[0].tag == componentRoot {
		root := roots[0]
		for _, a := range root.attrs {
			if a.name != "name" {
				continue
			}
			if lit, ok := literal(a.expr); ok {
				tmpl.name = lit
			}
		}
		tmpl.roots = root.children
	}

	tmpl.vars = collectVariables(tmpl.roots)
	return tmpl, nil
}

func parseTemplate(src string, line int, source string) (hcl.Expression, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(src), "markup", hcl.Pos{Line: line, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, errors.New("E221").
			WithDetail(diags.Error()).
			WithLocation("", line, 0, source)
	}
	return expr, nil
}

func parseError(err error, source string) error {
	ext := errors.New("E221").Wrap(err)
	if syn, ok := err.(*xml.SyntaxError); ok {
		ext = ext.WithDetail(syn.Msg).WithLocation("", syn.Line, 0, source)
	}
	return ext
}

func tagName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// literal returns the value of a template without interpolations.
func literal(expr hcl.Expression) (string, bool) {
	tmpl, ok := expr.(*hclsyntax.TemplateExpr)
	if !ok || !tmpl.IsStringLiteral() {
		return "", false
	}
	v, diags := tmpl.Value(nil)
	if diags.HasErrors() {
		return "", false
	}
	return v.AsString(), true
}

// trimLayout drops whitespace used only for source layout: leading and
// trailing runs that contain a line break.
func trimLayout(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	start := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if strings.ContainsRune(s[:start], '\n') {
		s = s[start:]
	}
	end := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) + 1
	if strings.ContainsRune(s[end:], '\n') {
		s = s[:end]
	}
	return s
}

// IsComponentTag reports whether a markup tag names a component rather
// than an HTML element.
func IsComponentTag(tag string) bool {
	if tag == "" {
		return false
	}
	if strings.Contains(tag, ".") {
		return true
	}
	return unicode.IsUpper([]rune(tag)[0])
}
