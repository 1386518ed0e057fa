package tallycheck

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tallycheck/internal/transport"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/reconcile"
)

// Option is a function that configures a check.
type Option func(*options) error

type options struct {
	client  *transport.Client
	logger  *zerolog.Logger
	locator finalpiles.InvalidSectionLocator
	hooks   []MismatchHook
}

// MismatchHook is called with the changeset when the distributions differ,
// before Check returns.
type MismatchHook func(*reconcile.Changeset)

// WithTransport sets the HTTP client used for web sources.
func WithTransport(c *transport.Client) Option {
	return func(o *options) error {
		o.client = c
		return nil
	}
}

// WithLogger sets the logger for the run.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithInvalidSectionLocator overrides how the invalid ballots section of
// the official report is found.
func WithInvalidSectionLocator(l finalpiles.InvalidSectionLocator) Option {
	return func(o *options) error {
		o.locator = l
		return nil
	}
}

// WithMismatchHook registers a callback for differing distributions.
func WithMismatchHook(fn MismatchHook) Option {
	return func(o *options) error {
		if fn == nil {
			return errNilHook
		}
		o.hooks = append(o.hooks, fn)
		return nil
	}
}
