// Package audit runs the full check: load the official final piles report and
// the community Electowidget page, tally both into ranking distributions and
// reconcile them. Any violated assumption or difference is an error.
package audit

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/tallycheck/pkg/alias"
	"github.com/agentstation/tallycheck/pkg/electowidget"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/logging"
	"github.com/agentstation/tallycheck/pkg/ranking"
	"github.com/agentstation/tallycheck/pkg/reconcile"
	"github.com/agentstation/tallycheck/pkg/sources"
)

// Auditor checks one official source against one community source.
type Auditor struct {
	official  sources.Source
	community sources.Source
	aliases   alias.Func
	locator   finalpiles.InvalidSectionLocator
	logger    *zerolog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithOfficial sets the final piles report source.
func WithOfficial(src sources.Source) Option {
	return func(a *Auditor) {
		a.official = src
	}
}

// WithCommunity sets the Electowidget page source.
func WithCommunity(src sources.Source) Option {
	return func(a *Auditor) {
		a.community = src
	}
}

// WithAliases sets the community to official name mapping.
func WithAliases(fn alias.Func) Option {
	return func(a *Auditor) {
		a.aliases = fn
	}
}

// WithInvalidSectionLocator overrides how the report's invalid ballots
// section is found.
func WithInvalidSectionLocator(l finalpiles.InvalidSectionLocator) Option {
	return func(a *Auditor) {
		a.locator = l
	}
}

// WithLogger sets the logger. Without it the context logger is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// New creates an Auditor. Both sources and the alias function are required.
func New(opts ...Option) (*Auditor, error) {
	a := &Auditor{}
	for _, opt := range opts {
		opt(a)
	}
	switch {
	case a.official == nil:
		return nil, errors.NewValidationError("official", nil, "official source is required")
	case a.community == nil:
		return nil, errors.NewValidationError("community", nil, "community source is required")
	case a.aliases == nil:
		return nil, errors.NewValidationError("aliases", nil, "alias function is required")
	}
	return a, nil
}

// Result is everything an audit run produced. On a mismatch Run returns the
// result together with the error.
type Result struct {
	RunID           string               `json:"run_id" yaml:"run_id"`
	OfficialSource  string               `json:"official_source" yaml:"official_source"`
	CommunitySource string               `json:"community_source" yaml:"community_source"`
	Stats           finalpiles.Stats     `json:"stats" yaml:"stats"`
	Records         int                  `json:"community_records" yaml:"community_records"`
	Official        ranking.Distribution `json:"-" yaml:"-"`
	Community       ranking.Distribution `json:"-" yaml:"-"`
	Changeset       *reconcile.Changeset `json:"changeset" yaml:"changeset"`
}

// Matched reports whether the distributions were equal.
func (r *Result) Matched() bool {
	return r.Changeset != nil && !r.Changeset.HasChanges()
}

// Run performs the audit. Work is sequential; ctx bounds network access.
func (a *Auditor) Run(ctx context.Context) (*Result, error) {
	if a.logger != nil {
		ctx = logging.WithLogger(ctx, a.logger)
	}
	res := &Result{
		RunID:           uuid.NewString(),
		OfficialSource:  a.official.String(),
		CommunitySource: a.community.String(),
	}
	ctx = logging.WithRunID(ctx, res.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().
		Str("official", res.OfficialSource).
		Str("community", res.CommunitySource).
		Msg("Starting audit")

	report, err := a.loadReport(logging.WithSource(ctx, sources.OfficialID.String()))
	if err != nil {
		return nil, err
	}
	res.Stats = report.Stats()
	res.Official = report.Tally()

	doc, err := a.loadWidget(logging.WithSource(ctx, sources.CommunityID.String()))
	if err != nil {
		return nil, err
	}
	res.Records = len(doc.Records)
	res.Community = doc.Distribution

	cs, err := reconcile.Verify(res.Official, res.Community, a.aliases)
	if cs == nil {
		return nil, err
	}
	res.Changeset = cs

	if err != nil {
		logger.Warn().
			Int("missing", cs.Summary.Missing).
			Int("extra", cs.Summary.Extra).
			Int("mismatched", cs.Summary.Mismatched).
			Msg("Distributions differ")
		return res, err
	}
	logger.Info().
		Int("rankings", res.Official.Len()).
		Int("ballots", res.Official.Total()).
		Msg("Distributions match")
	return res, nil
}

func (a *Auditor) loadReport(ctx context.Context) (*finalpiles.Report, error) {
	data, err := a.official.Load(ctx)
	if err != nil {
		return nil, err
	}
	text, err := DecodeText(data, "final-piles")
	if err != nil {
		return nil, err
	}

	var opts []finalpiles.Option
	if a.locator != nil {
		opts = append(opts, finalpiles.WithInvalidSectionLocator(a.locator))
	}
	report, err := finalpiles.Parse(text, opts...)
	if err != nil {
		return nil, err
	}

	st := report.Stats()
	logging.FromContext(ctx).Info().
		Int("candidates", st.Candidates).
		Int("valid", st.Valid).
		Int("invalid", st.Invalid).
		Int("piles", len(st.Piles)).
		Msg("Parsed final piles report")
	return report, nil
}

func (a *Auditor) loadWidget(ctx context.Context) (*electowidget.Document, error) {
	data, err := a.community.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := electowidget.Parse(data)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().
		Int("records", len(doc.Records)).
		Int("ballots", doc.Distribution.Total()).
		Msg("Parsed Electowidget data")
	return doc, nil
}

// DecodeText returns data as a string when it is valid UTF-8 and fails with
// a format violation attributed to source otherwise.
func DecodeText(data []byte, source string) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.NewAssumptionError(source, errors.KindFormat, "document is not valid UTF-8", "")
	}
	return string(data), nil
}
