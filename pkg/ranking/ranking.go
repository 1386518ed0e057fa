// Package ranking defines the canonical representation of one ballot's
// preference order: an ordered sequence of tiers, each tier a set of
// candidates considered tied at that rank.
//
// Example usage:
//
//	r := ranking.FromRatings(map[ranking.Candidate]int{"a": 5, "b": 5, "c": 8})
//	fmt.Println(r) // c > a=b
//
//	var c ranking.Counter
//	c.Add(r, 3)
//	dist := c.Distribution()
package ranking

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/tallycheck/pkg/errors"
)

// Candidate is an opaque candidate name.
type Candidate string

// String returns the candidate name.
func (c Candidate) String() string {
	return string(c)
}

// Tier is a non-empty set of candidates tied at one rank.
// Members are kept sorted so that equal sets compare equal.
type Tier struct {
	members []Candidate
}

// NewTier creates a tier from the given candidates. Order does not matter.
func NewTier(candidates ...Candidate) (Tier, error) {
	if len(candidates) == 0 {
		return Tier{}, errors.NewValidationError("tier", nil, "tier must contain at least one candidate")
	}
	members := slices.Clone(candidates)
	slices.Sort(members)
	for i := 1; i < len(members); i++ {
		if members[i] == members[i-1] {
			return Tier{}, errors.NewValidationError("tier", string(members[i]),
				"candidate "+strconv.Quote(string(members[i]))+" appears twice in one tier")
		}
	}
	return Tier{members: members}, nil
}

// Candidates returns a copy of the tier members in sorted order.
func (t Tier) Candidates() []Candidate {
	return slices.Clone(t.members)
}

// Len returns the number of candidates in the tier.
func (t Tier) Len() int {
	return len(t.members)
}

// Contains reports whether c is in the tier.
func (t Tier) Contains(c Candidate) bool {
	_, found := slices.BinarySearch(t.members, c)
	return found
}

// Equal reports set equality.
func (t Tier) Equal(other Tier) bool {
	return slices.Equal(t.members, other.members)
}

// String renders the tier as "a=b".
func (t Tier) String() string {
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = string(m)
	}
	return strings.Join(names, "=")
}

// key renders the tier unambiguously, quoting each name.
func (t Tier) key() string {
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = strconv.Quote(string(m))
	}
	return strings.Join(names, "=")
}

// Ranking is an ordered sequence of tiers, most preferred first.
// The zero value is the empty ranking, meaning no preference expressed.
type Ranking struct {
	tiers []Tier
}

// New creates a ranking from tiers, most preferred first. It fails if any
// tier is empty or a candidate appears in more than one tier.
func New(tiers ...Tier) (Ranking, error) {
	seen := make(map[Candidate]struct{})
	for i, t := range tiers {
		if t.Len() == 0 {
			return Ranking{}, errors.NewValidationError("ranking", i, "tier "+strconv.Itoa(i+1)+" is empty")
		}
		for _, c := range t.members {
			if _, dup := seen[c]; dup {
				return Ranking{}, errors.NewValidationError("ranking", string(c),
					"duplicate vote for candidate "+strconv.Quote(string(c)))
			}
			seen[c] = struct{}{}
		}
	}
	return Ranking{tiers: slices.Clone(tiers)}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(tiers ...[]Candidate) Ranking {
	built := make([]Tier, 0, len(tiers))
	for _, members := range tiers {
		t, err := NewTier(members...)
		if err != nil {
			panic(err)
		}
		built = append(built, t)
	}
	r, err := New(built...)
	if err != nil {
		panic(err)
	}
	return r
}

// FromRatings builds a ranking from a rating map where a higher rating means
// more preferred. Candidates with equal ratings share a tier and tiers are
// ordered by descending rating. An empty map yields the empty ranking.
func FromRatings(ratings map[Candidate]int) Ranking {
	groups := make(map[int][]Candidate)
	for c, rating := range ratings {
		groups[rating] = append(groups[rating], c)
	}

	values := make([]int, 0, len(groups))
	for v := range groups {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b int) int { return cmp.Compare(b, a) })

	tiers := make([]Tier, 0, len(values))
	for _, v := range values {
		members := groups[v]
		slices.Sort(members)
		tiers = append(tiers, Tier{members: members})
	}
	return Ranking{tiers: tiers}
}

// Tiers returns a copy of the tiers, most preferred first.
func (r Ranking) Tiers() []Tier {
	return slices.Clone(r.tiers)
}

// Len returns the number of tiers.
func (r Ranking) Len() int {
	return len(r.tiers)
}

// IsEmpty reports whether the ranking expresses no preference.
func (r Ranking) IsEmpty() bool {
	return len(r.tiers) == 0
}

// Candidates returns every ranked candidate in preference order, sorted
// within each tier.
func (r Ranking) Candidates() []Candidate {
	var out []Candidate
	for _, t := range r.tiers {
		out = append(out, t.members...)
	}
	return out
}

// HasTies reports whether any tier holds more than one candidate.
func (r Ranking) HasTies() bool {
	return slices.ContainsFunc(r.tiers, func(t Tier) bool { return t.Len() > 1 })
}

// Equal reports element-wise tier equality.
func (r Ranking) Equal(other Ranking) bool {
	return slices.EqualFunc(r.tiers, other.tiers, Tier.Equal)
}

// Key returns a canonical encoding of the ranking. Two rankings are equal
// exactly when their keys are equal.
func (r Ranking) Key() string {
	parts := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		parts[i] = t.key()
	}
	return strings.Join(parts, ">")
}

// String renders the ranking as "a > b=c". The empty ranking renders as "()".
func (r Ranking) String() string {
	if r.IsEmpty() {
		return "()"
	}
	parts := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		parts[i] = t.String()
	}
	return strings.Join(parts, " > ")
}

// Rename returns a new ranking with every candidate passed through fn.
// The result is revalidated, so two names that collapse into one are
// reported as a duplicate vote.
func (r Ranking) Rename(fn func(Candidate) (Candidate, error)) (Ranking, error) {
	tiers := make([]Tier, 0, len(r.tiers))
	for _, t := range r.tiers {
		renamed := make([]Candidate, 0, t.Len())
		for _, c := range t.members {
			n, err := fn(c)
			if err != nil {
				return Ranking{}, err
			}
			renamed = append(renamed, n)
		}
		nt, err := NewTier(renamed...)
		if err != nil {
			return Ranking{}, err
		}
		tiers = append(tiers, nt)
	}
	return New(tiers...)
}

// MarshalText renders the ranking for JSON/YAML keys and values.
func (r Ranking) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
