// Package reconcile compares the ranking distribution tallied from the
// official report with the one published by the community, after
// translating community candidate names through an alias function.
package reconcile

import (
	"cmp"
	"slices"

	"github.com/agentstation/tallycheck/pkg/alias"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
)

const sourceName = "reconcile"

// Compare aliases community, then reports every ranking whose presence or
// count differs between the two distributions. A nil fn means identity.
func Compare(official, community ranking.Distribution, fn alias.Func) (*Changeset, error) {
	renamed, err := Rename(community, fn)
	if err != nil {
		return nil, err
	}

	cs := &Changeset{}
	for _, e := range official.Entries() {
		got := renamed.Count(e.Ranking)
		switch {
		case got == 0:
			cs.Missing = append(cs.Missing, e)
		case got != e.Count:
			cs.Mismatched = append(cs.Mismatched, CountChange{
				Ranking:   e.Ranking,
				Official:  e.Count,
				Community: got,
			})
		}
	}
	for _, e := range renamed.Entries() {
		if official.Count(e.Ranking) == 0 {
			cs.Extra = append(cs.Extra, e)
		}
	}
	slices.SortFunc(cs.Mismatched, func(a, b CountChange) int {
		return cmp.Compare(a.Ranking.Key(), b.Ranking.Key())
	})

	cs.Summary = Summary{
		Missing:          len(cs.Missing),
		Extra:            len(cs.Extra),
		Mismatched:       len(cs.Mismatched),
		TotalChanges:     len(cs.Missing) + len(cs.Extra) + len(cs.Mismatched),
		OfficialRankings: official.Len(),
		OfficialBallots:  official.Total(),
		CommunityBallots: renamed.Total(),
	}
	return cs, nil
}

// Rename passes every ranking of d through fn. Rankings that become equal
// after renaming have their counts summed.
func Rename(d ranking.Distribution, fn alias.Func) (ranking.Distribution, error) {
	if fn == nil {
		fn = alias.Identity
	}
	var c ranking.Counter
	for _, e := range d.Entries() {
		r, err := e.Ranking.Rename(fn)
		if err != nil {
			if errors.IsValidationError(err) {
				return ranking.Distribution{}, errors.NewAssumptionError(sourceName, errors.KindUniqueness,
					"aliases map two candidates of one ballot to the same name", e.Ranking.String())
			}
			return ranking.Distribution{}, err
		}
		c.Add(r, e.Count)
	}
	return c.Distribution(), nil
}

// Verify compares the distributions and returns a *errors.MismatchError
// describing the differences when they are not equal.
func Verify(official, community ranking.Distribution, fn alias.Func) (*Changeset, error) {
	cs, err := Compare(official, community, fn)
	if err != nil {
		return nil, err
	}
	if cs.HasChanges() {
		return cs, cs.Err()
	}
	return cs, nil
}
