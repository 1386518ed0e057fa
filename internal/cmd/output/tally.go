package output

import (
	"fmt"
	"io"

	"github.com/agentstation/tallycheck/internal/cmd/emoji"
	"github.com/agentstation/tallycheck/internal/cmd/table"
	"github.com/agentstation/tallycheck/pkg/audit"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/ranking"
	"github.com/agentstation/tallycheck/pkg/reconcile"
)

// ReportView is the serialized form of a parsed final piles report.
type ReportView struct {
	Source       string           `json:"source" yaml:"source"`
	Stats        finalpiles.Stats `json:"stats" yaml:"stats"`
	Distribution []ranking.Entry  `json:"distribution" yaml:"distribution"`
}

// WidgetView is the serialized form of a parsed Electowidget page.
type WidgetView struct {
	Source       string          `json:"source" yaml:"source"`
	Records      int             `json:"records" yaml:"records"`
	Ballots      int             `json:"ballots" yaml:"ballots"`
	Distribution []ranking.Entry `json:"distribution" yaml:"distribution"`
}

// ResultView is the serialized form of an audit run.
type ResultView struct {
	RunID           string               `json:"run_id" yaml:"run_id"`
	Matched         bool                 `json:"matched" yaml:"matched"`
	OfficialSource  string               `json:"official_source" yaml:"official_source"`
	CommunitySource string               `json:"community_source" yaml:"community_source"`
	Stats           finalpiles.Stats     `json:"stats" yaml:"stats"`
	Records         int                  `json:"community_records" yaml:"community_records"`
	Changeset       *reconcile.Changeset `json:"changeset" yaml:"changeset"`
}

func newResultView(res *audit.Result) ResultView {
	return ResultView{
		RunID:           res.RunID,
		Matched:         res.Matched(),
		OfficialSource:  res.OfficialSource,
		CommunitySource: res.CommunitySource,
		Stats:           res.Stats,
		Records:         res.Records,
		Changeset:       res.Changeset,
	}
}

func isDocumentFormat(format Format) bool {
	return format == FormatTable || format == FormatMarkdown || format == ""
}

// FormatReport writes a parsed report's statistics and distribution.
func FormatReport(w io.Writer, format Format, source string, report *finalpiles.Report) error {
	dist := report.Tally()
	st := report.Stats()
	if !isDocumentFormat(format) {
		return NewFormatter(format).Format(w, ReportView{Source: source, Stats: st, Distribution: dist.Entries()})
	}
	return NewFormatter(format).Format(w, Document{
		Title: "Final piles report",
		Summary: fmt.Sprintf("%s: %s valid ballots in %s distinct rankings",
			source, table.FormatNumber(dist.Total()), table.FormatNumber(dist.Len())),
		Sections: []Section{
			{Heading: "Statistics", Data: table.StatsToTableData(st)},
			{Heading: "Distribution", Data: table.DistributionToTableData(dist)},
		},
	})
}

// FormatWidget writes a parsed Electowidget document's distribution.
func FormatWidget(w io.Writer, format Format, source string, records int, dist ranking.Distribution) error {
	if !isDocumentFormat(format) {
		return NewFormatter(format).Format(w, WidgetView{
			Source:       source,
			Records:      records,
			Ballots:      dist.Total(),
			Distribution: dist.Entries(),
		})
	}
	return NewFormatter(format).Format(w, Document{
		Title: "Electowidget data",
		Summary: fmt.Sprintf("%s: %s records, %s ballots in %s distinct rankings",
			source, table.FormatNumber(records), table.FormatNumber(dist.Total()), table.FormatNumber(dist.Len())),
		Sections: []Section{
			{Heading: "Distribution", Data: table.DistributionToTableData(dist)},
		},
	})
}

// FormatResult writes an audit run: the summary and, when the distributions
// differ, every change.
func FormatResult(w io.Writer, format Format, res *audit.Result) error {
	if !isDocumentFormat(format) {
		return NewFormatter(format).Format(w, newResultView(res))
	}

	doc := Document{
		Title:   "Ranking distribution audit",
		Summary: resultSummary(res),
		Sections: []Section{
			{Heading: "Summary", Data: table.ResultToTableData(res)},
			{Heading: "Official report", Data: table.StatsToTableData(res.Stats)},
		},
	}
	if cs := res.Changeset; cs != nil && cs.HasChanges() {
		doc.Sections = append(doc.Sections, Section{
			Heading: "Changes",
			Data:    table.ChangesetToTableData(cs),
			Notes:   changeNotes(cs),
		})
	}
	return NewFormatter(format).Format(w, doc)
}

func resultSummary(res *audit.Result) string {
	if res.Matched() {
		return emoji.Success + " " + res.Changeset.String()
	}
	if res.Changeset == nil {
		return emoji.Error + " audit did not complete"
	}
	return emoji.Error + " " + res.Changeset.String()
}

func changeNotes(cs *reconcile.Changeset) []string {
	s := cs.Summary
	return []string{
		fmt.Sprintf("%d rankings only in the official report", s.Missing),
		fmt.Sprintf("%d rankings only in the community data", s.Extra),
		fmt.Sprintf("%d rankings with different counts", s.Mismatched),
	}
}
