// Package alias maps candidate names used by one data source onto the names
// used by another. Tables are maintained by hand and injected into the
// reconciler as a Func.
package alias

import (
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
)

const sourceName = "alias"

// Func translates one candidate name. It must fail for names it does not
// know rather than pass them through.
type Func func(ranking.Candidate) (ranking.Candidate, error)

// Identity returns every name unchanged.
func Identity(c ranking.Candidate) (ranking.Candidate, error) {
	return c, nil
}

// Table is a strict lookup from source names to target names.
type Table struct {
	entries map[string]ranking.Candidate
	fold    bool
}

// Option configures a Table.
type Option func(*Table)

// WithCaseFolding makes lookups ignore case differences.
func WithCaseFolding(fold bool) Option {
	return func(t *Table) {
		t.fold = fold
	}
}

// NewTable builds a table from name pairs. Two source names that normalize
// to the same key are rejected, as is an empty name on either side.
func NewTable(pairs map[string]string, opts ...Option) (*Table, error) {
	t := &Table{entries: make(map[string]ranking.Candidate, len(pairs))}
	for _, opt := range opts {
		opt(t)
	}

	// sorted so the reported duplicate is stable
	for _, from := range slices.Sorted(maps.Keys(pairs)) {
		to := pairs[from]
		if from == "" || to == "" {
			return nil, errors.NewValidationError("aliases", from, "alias names must not be empty")
		}
		k := t.key(from)
		if _, dup := t.entries[k]; dup {
			return nil, errors.NewValidationError("aliases", from, "alias defined twice after normalization")
		}
		t.entries[k] = ranking.Candidate(norm.NFC.String(to))
	}
	return t, nil
}

// key normalizes a name for lookup.
func (t *Table) key(name string) string {
	k := norm.NFC.String(name)
	if t.fold {
		k = cases.Fold().String(k)
	}
	return k
}

// Lookup returns the target name for c.
func (t *Table) Lookup(c ranking.Candidate) (ranking.Candidate, bool) {
	to, ok := t.entries[t.key(string(c))]
	return to, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Targets returns the distinct target names in sorted order.
func (t *Table) Targets() []ranking.Candidate {
	seen := make(map[ranking.Candidate]struct{}, len(t.entries))
	for _, to := range t.entries {
		seen[to] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Func returns the table as a strict alias function.
func (t *Table) Func() Func {
	return func(c ranking.Candidate) (ranking.Candidate, error) {
		to, ok := t.Lookup(c)
		if !ok {
			return "", errors.NewAssumptionError(sourceName, errors.KindReference,
				"no alias for candidate "+`"`+string(c)+`"`, "")
		}
		return to, nil
	}
}

// LoadFile reads a YAML mapping of source name to target name.
func LoadFile(path string, opts ...Option) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var pairs map[string]string
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if len(pairs) == 0 {
		return nil, errors.NewValidationError("aliases", path, "alias file has no entries")
	}
	return NewTable(pairs, opts...)
}

// Preset names accepted by FromPreset.
const PresetBurlington2009 = "burlington-2009"

// FromPreset returns a built-in table by name.
func FromPreset(name string, opts ...Option) (*Table, error) {
	switch name {
	case PresetBurlington2009:
		return Burlington2009(opts...), nil
	default:
		return nil, errors.NewValidationError("preset", name, "unknown alias preset")
	}
}

// Burlington2009 maps the surnames used on the wiki data page for the 2009
// Burlington, Vermont mayoral election to the full names in the official
// report.
func Burlington2009(opts ...Option) *Table {
	t, err := NewTable(map[string]string{
		"Kiss":     "Bob Kiss",
		"Montroll": "Andy Montroll",
		"Simpson":  "James Simpson",
		"Smith":    "Dan Smith",
		"Wright":   "Kurt Wright",
		"Write-in": "Write-in",
	}, opts...)
	if err != nil {
		panic(err)
	}
	return t
}
