package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type runFlags struct {
	dryRun bool
	diff   bool
	report string
}

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply rewrite pipelines to files",
		Long: `Run applies every selected pipeline, in config order, to its file set.
Each file ends up changed, unchanged, skipped-denylisted or
skipped-already-migrated. Files are only written when their content changed.`,
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
			if res.Files.DryRun() {
				if n := len(res.PendingPaths()); n > 0 {
					log.FromContext(ctx).Infof("%d file(s) would change", n)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff of every changed file")
	cmd.Flags().StringVar(&flags.report, "report", "", "write a JSON run report to this path")

	return cmd
}

// execute runs the pipelines and prints the per run output shared by run and
// check. When a pipeline fails the files already handled are still summarized
// and reported.
func execute(ctx context.Context, w io.Writer, o *opts.RootOpts, flags runFlags) (*operation.Result, error) {
	logger := log.FromContext(ctx)

	mode := "run"
	if flags.dryRun {
		mode = "dry run"
	}
	logger.Header(mode + " • " + o.Source())

	res, err := operation.Run(ctx, operation.RunOptions{
		Config:    o.Config,
		Pipelines: o.Pipelines,
		Root:      o.Root,
		DryRun:    flags.dryRun,
		Reporter:  logger,
	})
	if res == nil {
		return nil, err
	}

	if flags.diff {
		for _, r := range res.Files.Pending() {
			logger.LogNewline()
			logger.PrintDiff(operation.UnifiedDiff(r.Path, r.Before, r.After))
		}
	}

	logger.LogNewline()
	if serr := printSummary(w, res); serr != nil && err == nil {
		err = serr
	}

	if flags.report != "" {
		if rerr := res.Report().WriteFile(flags.report); rerr != nil {
			if err == nil {
				err = rerr
			}
		} else {
			logger.Infof("report written to %s", flags.report)
		}
	}

	if err != nil {
		return nil, err
	}
	return res, nil
}

func printSummary(w io.Writer, res *operation.Result) error {
	data := pterm.TableData{{"pipeline"}}
	for _, oc := range status.Outcomes {
		data[0] = append(data[0], oc.String())
	}
	for _, name := range res.Pipelines {
		data = append(data, summaryRow(name, res.Files.Summary(name)))
	}
	if len(res.Pipelines) > 1 {
		data = append(data, summaryRow("total", res.Summary()))
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}

func summaryRow(name string, s status.Summary) []string {
	row := []string{name}
	for _, oc := range status.Outcomes {
		row = append(row, strconv.Itoa(s[oc]))
	}
	return row
}
