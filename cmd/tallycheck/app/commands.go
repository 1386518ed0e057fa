package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/tallycheck/cmd/tallycheck/cmd/parse"
	"github.com/agentstation/tallycheck/cmd/tallycheck/cmd/verify"
)

// CreateVerifyCommand creates the verify command with app dependencies.
func (a *App) CreateVerifyCommand() *cobra.Command {
	return verify.NewCommand(a)
}

// CreateParseCommand creates the parse command with app dependencies.
func (a *App) CreateParseCommand() *cobra.Command {
	return parse.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("tallycheck %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// CreateManCommand creates the hidden man command, which writes a man page
// for the whole command tree to stdout.
func (a *App) CreateManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "TALLYCHECK",
				Section: "1",
				Source:  "tallycheck " + a.version,
				Manual:  "tallycheck Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
