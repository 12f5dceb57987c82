package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// testEngine loads a namespace "T" with an Outer markup component that
// nests Inner, and a Broken component that panics.
func testEngine(t *testing.T, mw ...host.Middleware) *host.Engine {
	t.Helper()

	inner, err := component.NewNativeComponent("Inner", component.MustMetadata(component.Record{
		Props: []component.PropSpec{{Name: "label", Type: component.TypeString, Default: "x"}},
	}), func(rc *component.RenderContext) *vdom.VNode {
		return vdom.Span(rc.Props.String("label"))
	})
	require.NoError(t, err)

	outer, err := component.NewMarkupComponent(component.MustMetadata(component.Record{}),
		`<Component name="Outer"><div><Inner label="hi"/></div></Component>`)
	require.NoError(t, err)

	broken, err := component.NewNativeComponent("Broken", component.MustMetadata(component.Record{}),
		func(rc *component.RenderContext) *vdom.VNode { panic("boom") })
	require.NoError(t, err)

	e := host.New(
		host.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		host.WithMiddleware(mw...),
	)
	require.NoError(t, e.Load(component.MustExtension("T", inner, outer, broken)))
	return e
}

func render(t *testing.T, e *host.Engine, tag string) error {
	t.Helper()
	_, err := e.Render(context.Background(), tag, nil)
	return err
}
