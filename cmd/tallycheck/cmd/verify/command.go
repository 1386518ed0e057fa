// Package verify implements the verify command, which audits the community
// Electowidget data against the official final piles report.
package verify

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/tallycheck"
	"github.com/agentstation/tallycheck/cmd/application"
	"github.com/agentstation/tallycheck/internal/cmd/cmdutil"
	"github.com/agentstation/tallycheck/internal/cmd/output"
	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/pkg/constants"
)

// NewCommand creates the verify command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		srcFlags *cmdutil.SourceFlags
		locFlag  *cmdutil.LocatorFlag
	)

	cmd := &cobra.Command{
		Use:     "verify",
		GroupID: "audit",
		Short:   "Check community ballot data against the official report",
		Long: `Verify loads the official final piles report and the community Electowidget
data, tallies the valid ballots of each into a distribution of rankings and
compares them after translating community candidate names with the alias
table.

Sources come from the data source file (--config). The flags below override
individual entries; with --official, --community and an alias origin no file
is needed. The command exits with status 1 when any assumption about either
document is violated or the distributions differ.`,
		Example: `  tallycheck verify
  tallycheck verify --config burlington.toml -o markdown
  tallycheck verify --official report.txt --community page.html --preset burlington-2009`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, srcFlags, locFlag)
		},
	}

	srcFlags = cmdutil.AddSourceFlags(cmd)
	locFlag = cmdutil.AddLocatorFlag(cmd)

	return cmd
}

func run(cmd *cobra.Command, app application.Application, srcFlags *cmdutil.SourceFlags, locFlag *cmdutil.LocatorFlag) error {
	cfg, err := resolveSources(app, srcFlags)
	if err != nil {
		return err
	}
	locator, err := locFlag.Locator()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
	defer cancel()

	res, runErr := tallycheck.Check(ctx, cfg,
		tallycheck.WithTransport(app.Transport()),
		tallycheck.WithLogger(app.Logger()),
		tallycheck.WithInvalidSectionLocator(locator),
	)
	if res != nil {
		if err := output.FormatResult(cmd.OutOrStdout(), output.Format(app.OutputFormat()), res); err != nil {
			return err
		}
	}
	return runErr
}

// resolveSources merges the data source file with the flag overrides. The
// file is skipped when the flags alone describe a complete audit.
func resolveSources(app application.Application, flags *cmdutil.SourceFlags) (*config.Sources, error) {
	cfg := &config.Sources{}
	if !flags.Standalone() {
		loaded, err := app.DataSources()
		if err != nil {
			return nil, err
		}
		// copy so overrides do not leak into the cached configuration
		c := *loaded
		cfg = &c
	}
	flags.Apply(cfg)
	return cfg, nil
}
