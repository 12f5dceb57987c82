package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/pkg/component"
)

func describeCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe <component>",
		Short: "Show a component's metadata",
		Long: `Show the status, description and properties of a component. The name
may be qualified (XMLUIExtensions.CustomButton) or, when unique, bare
(CustomButton).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd)
			if err != nil {
				return err
			}
			e, err := p.loadEngine()
			if err != nil {
				return err
			}
			qualified, reg, err := e.Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			md := reg.Metadata()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"qualified": qualified,
					"renderer":  component.RendererKind(reg.Renderer()),
					"metadata":  md,
				})
			}

			fmt.Fprintf(out, "%s (%s, %s)\n", qualified, component.RendererKind(reg.Renderer()), md.Status())
			if md.Description() != "" {
				fmt.Fprintf(out, "  %s\n", md.Description())
			}
			if md.Len() == 0 {
				return nil
			}

			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROPERTY\tTYPE\tDEFAULT\tDESCRIPTION")
			for _, spec := range md.Props() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", spec.Name, propType(spec), propDefault(spec), spec.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the metadata as JSON")

	return cmd
}

func propType(spec component.PropSpec) string {
	if spec.Type == component.TypeEnum {
		return strings.Join(spec.Values, "|")
	}
	return string(spec.Type)
}

func propDefault(spec component.PropSpec) string {
	switch {
	case spec.HasDefault():
		return fmt.Sprint(spec.Default)
	case spec.Required():
		return "(required)"
	default:
		return "-"
	}
}
