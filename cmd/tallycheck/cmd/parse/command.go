// Package parse implements the parse command, which reads a single source
// document and prints its ranking distribution.
package parse

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/tallycheck/cmd/application"
	"github.com/agentstation/tallycheck/internal/cmd/cmdutil"
	"github.com/agentstation/tallycheck/internal/cmd/output"
	"github.com/agentstation/tallycheck/pkg/audit"
	"github.com/agentstation/tallycheck/pkg/electowidget"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/logging"
	"github.com/agentstation/tallycheck/pkg/sources"
)

// NewCommand creates the parse command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parse",
		GroupID: "inspect",
		Short:   "Parse one source document and print its distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newReportCommand(app))
	cmd.AddCommand(newWidgetCommand(app))
	return cmd
}

func newReportCommand(app application.Application) *cobra.Command {
	var (
		member  string
		locFlag *cmdutil.LocatorFlag
	)

	cmd := &cobra.Command{
		Use:   "report <file|url>",
		Short: "Parse a final piles report",
		Long: `Parse a final piles report and print its statistics and the distribution of
rankings over its valid ballots. With --member the argument is a zip archive
and the report is read from the named member.`,
		Example: `  tallycheck parse report "2009 Burlington Mayor Final Piles Report.txt"
  tallycheck parse report results.zip --member "Reports/2009 Burlington Mayor Final Piles Report.txt" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locator, err := locFlag.Locator()
			if err != nil {
				return err
			}

			src := cmdutil.Open(sources.OfficialID, args[0], member, app.Transport())
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			data, err := src.Load(ctx)
			if err != nil {
				return err
			}
			text, err := audit.DecodeText(data, "final-piles")
			if err != nil {
				return err
			}
			report, err := finalpiles.Parse(text, finalpiles.WithInvalidSectionLocator(locator))
			if err != nil {
				return err
			}
			return output.FormatReport(cmd.OutOrStdout(), output.Format(app.OutputFormat()), src.String(), report)
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "archive member holding the report")
	locFlag = cmdutil.AddLocatorFlag(cmd)

	return cmd
}

func newWidgetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "widget <file|url>",
		Short:   "Parse a wiki page with Electowidget data",
		Example: `  tallycheck parse widget page.html -o yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := cmdutil.Open(sources.CommunityID, args[0], "", app.Transport())
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			data, err := src.Load(ctx)
			if err != nil {
				return err
			}
			doc, err := electowidget.Parse(data)
			if err != nil {
				return err
			}
			return output.FormatWidget(cmd.OutOrStdout(), output.Format(app.OutputFormat()),
				src.String(), len(doc.Records), doc.Distribution)
		},
	}
}
