package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/preset"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	var listPresets bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List pipelines and their steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listPresets {
				for _, name := range preset.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			if err := o.Load(cmd.Context()); err != nil {
				return err
			}
			pipelines, err := o.Config.Select(o.Pipelines)
			if err != nil {
				return err
			}
			return printRules(cmd.OutOrStdout(), pipelines)
		},
	}

	cmd.Flags().BoolVar(&listPresets, "presets", false, "list the bundled presets instead")

	return cmd
}

func printRules(w io.Writer, pipelines []config.Pipeline) error {
	data := pterm.TableData{{"pipeline", "syntax", "files", "step", "kind", "detail"}}
	for _, p := range pipelines {
		files := strings.Join(append(append([]string{}, p.Files.Include...), p.Files.Paths...), " ")
		for i, s := range p.Steps {
			row := []string{"", "", "", s.Name(), s.Kind(), stepDetail(s)}
			if i == 0 {
				row[0], row[1], row[2] = p.Name, p.Syntax, files
			}
			data = append(data, row)
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering rules: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}

func stepDetail(s config.Step) string {
	switch {
	case s.Rewrite != nil:
		detail := fmt.Sprintf("%d rules", len(s.Rewrite.Rules))
		if s.Rewrite.Block != "" {
			detail += " in blocks"
		}
		return detail
	case s.Insert != nil:
		return fmt.Sprintf("%s after %s (%d fallbacks)", s.Insert.Field, s.Insert.Anchor, len(s.Insert.Fallbacks))
	}
	return ""
}
