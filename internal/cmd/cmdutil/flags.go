// Package cmdutil provides shared flags and helpers for tallycheck commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/internal/transport"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/sources"
)

// Invalid ballots section locators accepted by --invalid-section.
const (
	LocatorComment = "comment"
	LocatorStatus  = "status"
)

// LocatorFlag holds the --invalid-section flag.
type LocatorFlag struct {
	Name string
}

// AddLocatorFlag adds --invalid-section to a command.
func AddLocatorFlag(cmd *cobra.Command) *LocatorFlag {
	flag := &LocatorFlag{}
	cmd.Flags().StringVar(&flag.Name, "invalid-section", LocatorComment,
		"how to find the invalid ballots section: comment (marker line) or status (0) column)")
	return flag
}

// Locator returns the locator named by the flag.
func (f *LocatorFlag) Locator() (finalpiles.InvalidSectionLocator, error) {
	switch strings.ToLower(f.Name) {
	case LocatorComment, "":
		return finalpiles.CommentMarkerLocator, nil
	case LocatorStatus:
		return finalpiles.StatusColumnLocator, nil
	default:
		return nil, errors.NewValidationError("invalid-section", f.Name, "must be one of: comment, status")
	}
}

// SourceFlags holds flags that override the data source file.
type SourceFlags struct {
	Official  string
	Community string
	Member    string
	Aliases   string
	Preset    string
	Identity  bool
	FoldCase  bool
}

// AddSourceFlags adds data source override flags to a command.
func AddSourceFlags(cmd *cobra.Command) *SourceFlags {
	flags := &SourceFlags{}

	cmd.Flags().StringVar(&flags.Official, "official", "",
		"local final piles report (or zip archive with --member)")
	cmd.Flags().StringVar(&flags.Community, "community", "",
		"local wiki page with Electowidget data")
	cmd.Flags().StringVar(&flags.Member, "member", "",
		"archive member holding the final piles report")
	cmd.Flags().StringVar(&flags.Aliases, "aliases", "",
		"YAML file mapping community names to official names")
	cmd.Flags().StringVar(&flags.Preset, "preset", "",
		"built-in alias table (burlington-2009)")
	cmd.Flags().BoolVar(&flags.Identity, "identity", false,
		"compare candidate names without aliasing")
	cmd.Flags().BoolVar(&flags.FoldCase, "fold-case", false,
		"ignore case differences when aliasing")

	cmd.MarkFlagsMutuallyExclusive("aliases", "preset", "identity")

	return flags
}

// Standalone reports whether the flags name both documents and an alias
// origin, so no data source file is needed.
func (f *SourceFlags) Standalone() bool {
	return f.Official != "" && f.Community != "" && (f.Aliases != "" || f.Preset != "" || f.Identity)
}

// Apply overrides cfg with every flag that was set.
func (f *SourceFlags) Apply(cfg *config.Sources) {
	if f.Official != "" {
		cfg.Official = config.Source{Path: f.Official}
	}
	if f.Member != "" {
		cfg.Official.ArchiveMember = f.Member
	}
	if f.Community != "" {
		cfg.Community = config.Source{Path: f.Community}
	}

	fold := cfg.Aliases.FoldCase || f.FoldCase
	switch {
	case f.Aliases != "":
		cfg.Aliases = config.Aliases{File: f.Aliases}
	case f.Preset != "":
		cfg.Aliases = config.Aliases{Preset: f.Preset}
	case f.Identity:
		cfg.Aliases = config.Aliases{Identity: true}
	}
	cfg.Aliases.FoldCase = fold
}

// Open builds a source for a path or URL argument. Arguments starting with
// http:// or https:// are downloaded with client. A non-empty member reads
// that file out of a zip archive.
func Open(id sources.ID, arg, member string, client *transport.Client) sources.Source {
	s := config.Source{Path: arg, ArchiveMember: member}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		s = config.Source{WebURL: arg, ArchiveMember: member}
	}
	return s.Build(id, client)
}
