package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
)

// CountChange is a ranking present on both sides with different counts.
type CountChange struct {
	Ranking   ranking.Ranking `json:"ranking" yaml:"ranking"`
	Official  int             `json:"official" yaml:"official"`
	Community int             `json:"community" yaml:"community"`
}

// Changeset represents all differences between two distributions.
type Changeset struct {
	Missing    []ranking.Entry `json:"missing" yaml:"missing"`       // in the official tally only
	Extra      []ranking.Entry `json:"extra" yaml:"extra"`           // in the community data only
	Mismatched []CountChange   `json:"mismatched" yaml:"mismatched"` // on both sides, counts differ
	Summary    Summary         `json:"summary" yaml:"summary"`
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	Missing          int `json:"missing" yaml:"missing"`
	Extra            int `json:"extra" yaml:"extra"`
	Mismatched       int `json:"mismatched" yaml:"mismatched"`
	TotalChanges     int `json:"total_changes" yaml:"total_changes"`
	OfficialRankings int `json:"official_rankings" yaml:"official_rankings"`
	OfficialBallots  int `json:"official_ballots" yaml:"official_ballots"`
	CommunityBallots int `json:"community_ballots" yaml:"community_ballots"`
}

// HasChanges returns true if the changeset contains any differences.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if !c.HasChanges() {
		return fmt.Sprintf("Distributions match: %d rankings, %d ballots",
			c.Summary.OfficialRankings, c.Summary.OfficialBallots)
	}

	var parts []string
	if n := c.Summary.Missing; n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", n))
	}
	if n := c.Summary.Extra; n > 0 {
		parts = append(parts, fmt.Sprintf("%d extra", n))
	}
	if n := c.Summary.Mismatched; n > 0 {
		parts = append(parts, fmt.Sprintf("%d with different counts", n))
	}
	return fmt.Sprintf("Distributions differ: %s (official %d ballots, community %d ballots)",
		strings.Join(parts, ", "), c.Summary.OfficialBallots, c.Summary.CommunityBallots)
}

// Err converts the changeset into a *errors.MismatchError, or nil when
// there is nothing to report.
func (c *Changeset) Err() error {
	if !c.HasChanges() {
		return nil
	}
	e := &errors.MismatchError{}
	for _, m := range c.Missing {
		e.Missing = append(e.Missing, fmt.Sprintf("%s (%d)", m.Ranking, m.Count))
	}
	for _, x := range c.Extra {
		e.Extra = append(e.Extra, fmt.Sprintf("%s (%d)", x.Ranking, x.Count))
	}
	for _, d := range c.Mismatched {
		e.Mismatched = append(e.Mismatched, fmt.Sprintf("%s (official %d, community %d)", d.Ranking, d.Official, d.Community))
	}
	return e
}
