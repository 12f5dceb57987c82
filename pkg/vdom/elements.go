package vdom

// voidElements never have children or a closing tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	_, ok := voidElements[tag]
	return ok
}

// El builds an element. Each arg is applied in order: Attr and []Attr set
// props (a "key" Attr sets Key), EventHandler sets a handler unless it is
// nil, *VNode and []*VNode append children, Component appends a component
// node, and a string appends a text node. nil and other values are
// skipped.
func El(tag string, args ...any) *VNode {
	n := &VNode{Kind: KindElement, Tag: tag, Props: Props{}, Children: []*VNode{}}
	for _, arg := range args {
		n.apply(arg)
	}
	return n
}

func (n *VNode) apply(arg any) {
	switch v := arg.(type) {
	case Attr:
		n.setAttr(v)
	case []Attr:
		for _, a := range v {
			n.setAttr(a)
		}
	case EventHandler:
		if v.Handler != nil {
			n.Props[v.Event] = v.Handler
		}
	case *VNode:
		n.appendChild(v)
	case []*VNode:
		for _, c := range v {
			n.appendChild(c)
		}
	case Component:
		n.appendChild(&VNode{Kind: KindComponent, Comp: v})
	case string:
		n.appendChild(Text(v))
	}
}

func (n *VNode) appendChild(c *VNode) {
	if c != nil {
		n.Children = append(n.Children, c)
	}
}

func (n *VNode) setAttr(a Attr) {
	switch a.Key {
	case "":
	case "key":
		if s, ok := a.Value.(string); ok {
			n.Key = s
		}
	default:
		n.Props[a.Key] = a.Value
	}
}

// Shorthands for the elements the built-in components emit.

func Div(args ...any) *VNode     { return El("div", args...) }
func P(args ...any) *VNode       { return El("p", args...) }
func Span(args ...any) *VNode    { return El("span", args...) }
func Strong(args ...any) *VNode  { return El("strong", args...) }
func Button(args ...any) *VNode  { return El("button", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
