package vdom

import "strings"

// VKind tells which fields of a VNode are meaningful.
type VKind uint8

const (
	KindElement   VKind = iota // Tag, Props, Children
	KindText                   // Text, escaped on output
	KindFragment               // Children only
	KindComponent              // Comp, expanded when rendered
	KindRaw                    // Text, written verbatim
)

var kindNames = [...]string{
	KindElement:   "Element",
	KindText:      "Text",
	KindFragment:  "Fragment",
	KindComponent: "Component",
	KindRaw:       "Raw",
}

func (k VKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// VNode is one node of a rendered component tree. Native components
// build VNodes directly; markup components produce them from a template.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode
	Key      string
	Text     string
	Comp     Component
}

// Props maps attribute names to values. Keys starting with "on" hold
// event handlers.
type Props map[string]any

// Attr returns attribute name as a string, or "" when it is unset or not
// a string.
func (v *VNode) Attr(name string) string {
	if v == nil {
		return ""
	}
	s, _ := v.Props[name].(string)
	return s
}

// IsInteractive reports whether an element carries an event handler.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventKey(key) {
			return true
		}
	}
	return false
}

// IsEventKey reports whether key names an event handler, e.g. "onclick".
func IsEventKey(key string) bool {
	return len(key) > len("on") && strings.HasPrefix(key, "on")
}

// Attr is a single attribute passed to an element constructor. The zero
// Attr is ignored.
type Attr struct {
	Key   string
	Value any
}

func (a Attr) IsEmpty() bool { return a.Key == "" }

// EventHandler binds a handler to an "on" prop.
type EventHandler struct {
	Event   string
	Handler any
}

// Component is a deferred subtree.
type Component interface {
	Render() *VNode
}

type renderFunc func() *VNode

func (f renderFunc) Render() *VNode { return f() }

// Func wraps render as a Component.
func Func(render func() *VNode) Component {
	return renderFunc(render)
}
