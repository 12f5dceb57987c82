package vdom

import (
	"fmt"
	"strings"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})
		}
	}

	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Walk visits node and its descendants depth-first. Component nodes are
// rendered on the fly. Returning false from fn stops descent into that
// node's children.
func Walk(node *VNode, fn func(*VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	if node.Kind == KindComponent && node.Comp != nil {
		Walk(node.Comp.Render(), fn)
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// FindAll returns every element with the given tag under node.
func FindAll(node *VNode, tag string) []*VNode {
	var out []*VNode
	Walk(node, func(n *VNode) bool {
		if n.Kind == KindElement && n.Tag == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the first element with the given tag, or nil.
func Find(node *VNode, tag string) *VNode {
	if found := FindAll(node, tag); len(found) > 0 {
		return found[0]
	}
	return nil
}

// TextContent concatenates every text node under node.
func TextContent(node *VNode) string {
	var b strings.Builder
	Walk(node, func(n *VNode) bool {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}
