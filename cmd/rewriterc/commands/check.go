package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	flags := runFlags{dryRun: true}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail if any file would change",
		Long: `Check performs a dry run of the selected pipelines and exits with status 1
when any file would change. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := o.Load(ctx); err != nil {
				return err
			}
			res, err := execute(ctx, cmd.OutOrStdout(), o, flags)
			if err != nil {
				return err
			}
			if err := res.Check(); err != nil {
				return err
			}
			log.FromContext(ctx).Successf("nothing to rewrite across %d pipelines", len(res.Pipelines))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff of every file that would change")
	cmd.Flags().StringVar(&flags.report, "report", "", "write a JSON run report to this path")

	return cmd
}
