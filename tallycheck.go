// Package tallycheck audits community-maintained ranked ballot data against
// official election results.
//
// A check loads the official final piles report and the Electowidget data
// from a wiki page, tallies both into ranking distributions and reconciles
// them through a candidate alias table:
//
//	res, err := tallycheck.CheckFile(ctx, "data_sources.toml")
//	if errors.IsMismatch(err) {
//	    fmt.Println(res.Changeset)
//	}
//
// The packages under pkg/ expose each stage on its own.
package tallycheck

import (
	"context"

	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/internal/transport"
	"github.com/agentstation/tallycheck/pkg/audit"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/sources"
)

var errNilHook = errors.NewValidationError("hook", nil, "mismatch hook must not be nil")

// CheckFile reads a data source file (TOML, YAML or JSON) and runs Check.
func CheckFile(ctx context.Context, path string, opts ...Option) (*audit.Result, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return Check(ctx, cfg, opts...)
}

// Check validates cfg, builds both sources and the alias function from it
// and runs one audit. On a mismatch the result is returned together with a
// *errors.MismatchError.
func Check(ctx context.Context, cfg *config.Sources, opts ...Option) (*audit.Result, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.client == nil {
		o.client = transport.New()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	aliases, err := cfg.Aliases.Func()
	if err != nil {
		return nil, err
	}

	auditOpts := []audit.Option{
		audit.WithOfficial(cfg.Official.Build(sources.OfficialID, o.client)),
		audit.WithCommunity(cfg.Community.Build(sources.CommunityID, o.client)),
		audit.WithAliases(aliases),
	}
	if o.logger != nil {
		auditOpts = append(auditOpts, audit.WithLogger(o.logger))
	}
	if o.locator != nil {
		auditOpts = append(auditOpts, audit.WithInvalidSectionLocator(o.locator))
	}
	auditor, err := audit.New(auditOpts...)
	if err != nil {
		return nil, err
	}

	res, err := auditor.Run(ctx)
	if res != nil && res.Changeset != nil && res.Changeset.HasChanges() {
		for _, hook := range o.hooks {
			hook(res.Changeset)
		}
	}
	return res, err
}
