// Package vdom provides the virtual node tree the host engine renders.
//
// Every component, whether backed by markup or by a native render function,
// produces a *VNode. The host merges these nodes into its own tree and hands
// the result to pkg/render for HTML serialization.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// fragments, components, and raw HTML. Props holds attributes and event
// handlers. Attr and EventHandler are used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    Span(Text("Title")),
//	    OnClick(handler),
//	)
//
// # Comparison
//
// Equal compares two trees structurally. Event handlers are compared by
// presence only, since Go functions are not comparable.
package vdom
