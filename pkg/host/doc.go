// Package host is the UI engine side of the extension contract.
//
// An Engine loads component extensions into a table keyed by qualified
// name (Namespace.Name), resolves markup tags against that table and
// renders components:
//
//	engine := host.New(host.WithLogger(logger))
//	if err := engine.Load(ext); err != nil {
//	    return err
//	}
//	node, err := engine.RenderMarkup(ctx, `<CustomButton label="Save"/>`, nil)
//
// Before every render the engine resolves the given properties against the
// component's metadata, so renderers only ever see validated values with
// defaults applied. Markup-delegating components are evaluated by the
// engine's markup evaluator; compiled markup is cached.
//
// Loading is all-or-nothing: an extension whose qualified names collide
// with already loaded components is rejected without registering anything.
// Loads take a write lock and renders a read lock, so an Engine may render
// from many goroutines while another loads.
package host
