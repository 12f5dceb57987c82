// Package render serializes vdom trees to HTML.
//
// The host engine produces a *vdom.VNode per component invocation; render
// turns the merged tree into markup for previews, the CLI and tests.
//
//   - Text and attribute escaping
//   - Void element handling (input, br, img, etc.)
//   - Boolean attribute handling (disabled, checked, etc.)
//   - Event handler markers (data-on-click) instead of handler values
//   - Full page rendering with DOCTYPE, head and body
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// All text content is escaped. Raw HTML can be inserted using KindRaw
// nodes, but only with trusted content.
package render
