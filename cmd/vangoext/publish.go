package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/internal/catalog"
)

func publishCmd(opts *rootOptions) *cobra.Command {
	var (
		out    string
		bucket string
		key    string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the component catalog",
		Long: `Upload the component catalog, a JSON description of every loaded
component, to S3. With --out the catalog is written to a file instead.

Credentials come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN; the region from publish.region or AWS_REGION.

Examples:
  vangoext publish --bucket=my-components
  vangoext publish --out=catalog.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if bucket != "" {
				p.cfg.Publish.Bucket = bucket
			}
			if key != "" {
				p.cfg.Publish.Key = key
			}

			var pub catalog.Publisher
			if out != "" {
				pub = catalog.FilePublisher{Path: out}
			} else {
				if err := p.cfg.ValidatePublish(); err != nil {
					return err
				}
				client := catalog.NewS3Client(p.cfg.Publish.Region, p.cfg.Publish.Endpoint)
				pub = catalog.NewS3Publisher(client, p.cfg.Publish.Bucket, p.cfg.Publish.Key)
			}

			e, err := p.loadEngine()
			if err != nil {
				return err
			}
			m := catalog.FromEngine(e)
			location, err := pub.Publish(cmd.Context(), m)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Published %d components to %s", len(m.Components), location)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the catalog to a file instead of S3")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from vangoext.json)")
	cmd.Flags().StringVar(&key, "key", "", "Object key (default from vangoext.json)")

	return cmd
}
