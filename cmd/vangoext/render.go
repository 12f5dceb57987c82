package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/extensions"
	"github.com/vango-dev/vango-ext/pkg/render"
)

func renderCmd(opts *rootOptions) *cobra.Command {
	var (
		page   bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "render <component> [name=value...]",
		Short: "Render a component to HTML",
		Long: `Render a component with the given properties and print the HTML.

Examples:
  vangoext render CustomButton
  vangoext render XMLUIExtensions.CustomButton color=success label=Save
  vangoext render StyledText text=Hi variant=bold --page`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parseProps(args[1:])
			if err != nil {
				return err
			}
			p, err := opts.load(cmd)
			if err != nil {
				return err
			}
			e, err := p.loadEngine()
			if err != nil {
				return err
			}

			node, err := e.Render(cmd.Context(), args[0], props)
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			out := cmd.OutOrStdout()
			if page {
				return r.RenderPage(out, render.PageData{
					Title:  args[0],
					Styles: []string{extensions.Stylesheet()},
					Body:   node,
				})
			}
			html, err := r.RenderToString(node)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, html)
			return err
		},
	}

	cmd.Flags().BoolVar(&page, "page", false, "Wrap the output in a complete HTML page")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")

	return cmd
}

// parseProps turns name=value arguments into properties. Values stay
// strings; the component's metadata converts them.
func parseProps(args []string) (component.Props, error) {
	props := make(component.Props, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, errors.New("E141").
				WithDetailf("%q", arg).
				WithSuggestion("Write properties as name=value, e.g. color=success")
		}
		props[name] = value
	}
	return props, nil
}
