package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
)

// newRootCmd builds the command tree around a shared RootOpts
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Rule based rewriting of source and config files",
		Long: `rewriterc applies ordered pipelines of regex rewrites and field inserts
to sets of files. It is built for one-off code migrations: each file ends up
changed, unchanged, denylisted or already migrated, and a dry run shows
exactly what would happen.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, o)
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRulesCmd(o),
		commands.NewVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", opts.DefaultConfigFile, "config file path")
	cmd.PersistentFlags().StringVar(&o.Preset, "preset", "", "use a bundled preset instead of a config file")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "directory file sets resolve against, overrides the config root")
	cmd.PersistentFlags().StringArrayVar(&o.Pipelines, "pipeline", nil, "only run this pipeline (repeatable)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog and the console logger based on flags
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) context.Context {
	level := zerolog.Disabled
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(level).With().Timestamp().Logger()

	ctx := zlog.WithContext(cmd.Context())
	return log.NewContext(ctx, log.New(cmd.OutOrStdout(), level))
}
