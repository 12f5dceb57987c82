package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/markup"
)

func lintCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check markup components against their metadata",
		Long: `Compare every markup component's bindings with the properties its
metadata declares. A binding to an undeclared property, or a declared
property the markup never uses, fails the check.`,
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

			out := cmd.OutOrStdout()
			checked, failed := 0, 0
			for _, c := range e.Components() {
				mr, ok := c.Registration.Renderer().(*component.MarkupRenderer)
				if !ok {
					continue
				}
				checked++
				report, err := markup.CheckBindings(mr.Source(), c.Registration.Metadata())
				if err == nil {
					err = report.Err()
				}
				if err != nil {
					failed++
					failure(out, "%s: %v", c.Qualified(), err)
					continue
				}
				success(out, "%s", c.Qualified())
			}

			if failed > 0 {
				return errors.New("E143").WithDetailf("%d of %d markup components", failed, checked)
			}
			info(out, "%d markup components checked", checked)
			return nil
		},
	}
}
