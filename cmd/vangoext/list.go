package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/internal/catalog"
)

func listCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded components",
		Long: `List every loaded component with its renderer kind and status.

Examples:
  vangoext list
  vangoext list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd)
			if err != nil {
				return err
			}
			e, err := p.loadEngine()
			if err != nil {
				return err
			}

			m := catalog.FromEngine(e)
			if asJSON {
				data, err := m.JSON()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COMPONENT\tRENDERER\tSTATUS\tDESCRIPTION")
			for _, c := range m.Components {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					c.Qualified, c.Renderer, c.Metadata.Status(), c.Metadata.Description())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")

	return cmd
}
