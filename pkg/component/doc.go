// Package component defines the contract between extension components and
// the host UI engine.
//
// An extension component is three things bundled together:
//
//   - A Metadata descriptor: status, description and the declared
//     properties with their types, defaults and optionality.
//   - A Renderer: either a markup-delegating renderer that hands a markup
//     fragment to the host evaluator, or a native-delegating renderer that
//     calls a Go function.
//   - A name, unique within its namespace.
//
// Registrations are grouped into an Extension under a namespace, which is
// the single artifact a host loads.
//
// # Building Components
//
//	md := component.MustMetadata(component.Record{
//	    Status:      component.StatusStable,
//	    Description: "A greeting line",
//	    Props: []component.PropSpec{
//	        {Name: "name", Type: component.TypeString, Default: "World"},
//	    },
//	})
//
//	greeting, err := component.NewNativeComponent("Greeting", md,
//	    func(rc *component.RenderContext) *vdom.VNode {
//	        return vdom.P(vdom.Textf("Hello, %s", rc.Props.String("name")))
//	    })
//
//	ext, err := component.NewExtension("Demo", greeting)
//
// Metadata, registrations and extensions are immutable once built and safe
// to share between goroutines.
package component
