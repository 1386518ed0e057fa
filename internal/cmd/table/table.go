// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"

	"github.com/agentstation/tallycheck/internal/cmd/emoji"
	"github.com/agentstation/tallycheck/pkg/audit"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/ranking"
	"github.com/agentstation/tallycheck/pkg/reconcile"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// DistributionToTableData lists every ranking with its ballot count, most
// frequent first.
func DistributionToTableData(d ranking.Distribution) Data {
	entries := d.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{FormatNumber(e.Count), e.Ranking.String()})
	}
	return Data{
		Headers:         []string{"Ballots", "Ranking"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

// StatsToTableData converts report statistics to a key-value table.
func StatsToTableData(st finalpiles.Stats) Data {
	rows := [][]string{
		{"Candidates", strconv.Itoa(st.Candidates)},
		{"Valid ballots", FormatNumber(st.Valid)},
		{"Invalid ballots", FormatNumber(st.Invalid)},
		{"Tied ballots", FormatNumber(st.Tied)},
		{"Bullet votes", FormatNumber(st.Bullet)},
	}
	for _, p := range st.Piles {
		rows = append(rows, []string{p.Header, FormatNumber(p.Ballots)})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// ChangesetToTableData lists every difference. A ranking absent from one
// side shows "-" for that side's count.
func ChangesetToTableData(cs *reconcile.Changeset) Data {
	var rows [][]string
	for _, e := range cs.Missing {
		rows = append(rows, []string{"missing", e.Ranking.String(), FormatNumber(e.Count), "-"})
	}
	for _, e := range cs.Extra {
		rows = append(rows, []string{"extra", e.Ranking.String(), "-", FormatNumber(e.Count)})
	}
	for _, c := range cs.Mismatched {
		rows = append(rows, []string{"mismatched", c.Ranking.String(), FormatNumber(c.Official), FormatNumber(c.Community)})
	}
	return Data{
		Headers:         []string{"Change", "Ranking", "Official", "Community"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// ResultToTableData summarizes an audit run.
func ResultToTableData(res *audit.Result) Data {
	status := emoji.Error + " differ"
	if res.Matched() {
		status = emoji.Success + " match"
	}
	rows := [][]string{
		{"Run ID", res.RunID},
		{"Official source", res.OfficialSource},
		{"Community source", res.CommunitySource},
		{"Valid ballots", FormatNumber(res.Stats.Valid)},
		{"Invalid ballots", FormatNumber(res.Stats.Invalid)},
		{"Community records", FormatNumber(res.Records)},
		{"Rankings", FormatNumber(res.Official.Len())},
	}
	if res.Changeset != nil {
		rows = append(rows, []string{"Changes", FormatNumber(res.Changeset.Summary.TotalChanges)})
	}
	rows = append(rows, []string{"Distributions", status})
	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

// FormatNumber formats an integer with thousands separators.
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
