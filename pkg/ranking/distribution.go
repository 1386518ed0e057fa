package ranking

import (
	"cmp"
	"maps"
	"slices"
)

// Entry is one ranking and how many ballots expressed it.
type Entry struct {
	Ranking Ranking `json:"ranking" yaml:"ranking"`
	Count   int     `json:"count" yaml:"count"`
}

// Distribution maps rankings to ballot counts. It is read-only; build one
// with a Counter.
type Distribution struct {
	counts   map[string]int
	rankings map[string]Ranking
}

// Count returns how many ballots expressed r.
func (d Distribution) Count(r Ranking) int {
	return d.counts[r.Key()]
}

// Len returns the number of distinct rankings.
func (d Distribution) Len() int {
	return len(d.counts)
}

// Total returns the number of ballots across all rankings.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d.counts {
		total += n
	}
	return total
}

// Entries returns every ranking with its count, most frequent first and then
// by canonical key, so output is deterministic.
func (d Distribution) Entries() []Entry {
	keys := slices.Collect(maps.Keys(d.counts))
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(d.counts[b], d.counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	out := make([]Entry, len(keys))
	for i, k := range keys {
		out[i] = Entry{Ranking: d.rankings[k], Count: d.counts[k]}
	}
	return out
}

// Equal reports whether both distributions have identical key sets and
// identical counts per key.
func (d Distribution) Equal(other Distribution) bool {
	return maps.Equal(d.counts, other.counts)
}

// Counter accumulates ranking counts. The zero value is ready to use.
type Counter struct {
	counts   map[string]int
	rankings map[string]Ranking
}

// Add adds n ballots with ranking r. Non-positive n is ignored; callers
// validate counts before adding them.
func (c *Counter) Add(r Ranking, n int) {
	if n <= 0 {
		return
	}
	if c.counts == nil {
		c.counts = make(map[string]int)
		c.rankings = make(map[string]Ranking)
	}
	k := r.Key()
	c.counts[k] += n
	c.rankings[k] = r
}

// Distribution returns an independent snapshot of the accumulated counts.
func (c *Counter) Distribution() Distribution {
	d := Distribution{
		counts:   maps.Clone(c.counts),
		rankings: maps.Clone(c.rankings),
	}
	if d.counts == nil {
		d.counts = map[string]int{}
		d.rankings = map[string]Ranking{}
	}
	return d
}
