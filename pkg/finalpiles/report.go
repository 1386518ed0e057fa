// Package finalpiles parses the plain-text "final piles" report exported by
// Voting Solutions tabulation software into identified ballots.
//
// The report is a sequence of CRLF line-broken sections separated by blank
// lines. Candidate definitions live in one section, each `.FINAL-PILE `
// section lists the valid ballots credited to one candidate at the end of
// counting, and a trailing section lists invalid ballots. Nothing in the
// format is schema-checked, so Parse validates every structural assumption
// it relies on and fails on the first one that does not hold.
package finalpiles

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
)

// Section is one blank-line separated block of the report with blank lines
// removed and comment lines split out.
type Section struct {
	Lines    []string // non-comment lines in order
	Comments []string // lines starting with '#' in order
	first    string   // first line including comments
}

// FirstLine returns the first non-blank line of the section, comment or not.
func (s Section) FirstLine() string {
	return s.first
}

// isFinalPile reports whether the section is a final pile.
func (s Section) isFinalPile() bool {
	return len(s.Lines) > 0 && strings.HasPrefix(s.Lines[0], FinalPilePrefix)
}

// Pile summarizes one final-pile section.
type Pile struct {
	Header  string `json:"header" yaml:"header"`
	Ballots int    `json:"ballots" yaml:"ballots"`
}

// Report is the parsed content of a final piles report.
type Report struct {
	// Candidates maps report candidate ids (C01, ...) to names.
	Candidates map[string]ranking.Candidate
	// Ballots holds valid and invalid ballots sorted by identifier.
	Ballots []Ballot
	// Piles lists the final-pile sections in report order.
	Piles []Pile
}

// Option configures Parse.
type Option func(*options)

type options struct {
	locate InvalidSectionLocator
}

// WithInvalidSectionLocator replaces the rule used to find the invalid
// ballots section.
func WithInvalidSectionLocator(l InvalidSectionLocator) Option {
	return func(o *options) {
		o.locate = l
	}
}

// Parse parses the full text of a final piles report.
func Parse(text string, opts ...Option) (*Report, error) {
	o := options{locate: CommentMarkerLocator}
	for _, opt := range opts {
		opt(&o)
	}

	all := splitSections(text)
	if len(all) == 0 {
		return nil, violation(errors.KindStructure, "report has no sections", "")
	}

	invalidAt, err := o.locate(all)
	if err != nil {
		return nil, err
	}

	// Sections that were nothing but comments are dropped from here on.
	var sections []Section
	invalid := -1
	for i, s := range all {
		if len(s.Lines) == 0 {
			continue
		}
		if i == invalidAt {
			invalid = len(sections)
		}
		sections = append(sections, s)
	}

	candidates, err := parseCandidates(sections)
	if err != nil {
		return nil, err
	}

	if err := checkPlacement(sections, invalid); err != nil {
		return nil, err
	}

	report := &Report{Candidates: candidates}
	for _, s := range sections {
		if !s.isFinalPile() {
			continue
		}
		for _, line := range s.Lines[1:] {
			b, err := ParseValidBallot(line, candidates)
			if err != nil {
				return nil, err
			}
			report.Ballots = append(report.Ballots, b)
		}
		report.Piles = append(report.Piles, Pile{
			Header:  strings.TrimPrefix(s.Lines[0], FinalPilePrefix),
			Ballots: len(s.Lines) - 1,
		})
	}
	if invalid >= 0 {
		for _, line := range sections[invalid].Lines {
			b, err := ParseInvalidBallot(line)
			if err != nil {
				return nil, err
			}
			report.Ballots = append(report.Ballots, b)
		}
	}

	if len(report.Ballots) == 0 {
		return nil, violation(errors.KindStructure, "report contains no ballots", "")
	}

	slices.SortFunc(report.Ballots, func(a, b Ballot) int { return cmp.Compare(a.ID, b.ID) })
	for i := 1; i < len(report.Ballots); i++ {
		if report.Ballots[i].ID == report.Ballots[i-1].ID {
			return nil, violation(errors.KindUniqueness, "ids not unique: "+report.Ballots[i].ID, "")
		}
	}

	return report, nil
}

// splitSections splits the report on double CRLF, drops blank and
// whitespace-only lines and separates comments. Sections with no lines at
// all are dropped.
func splitSections(text string) []Section {
	var sections []Section
	for _, raw := range strings.Split(text, sectionBreak) {
		var s Section
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if s.first == "" {
				s.first = line
			}
			if strings.HasPrefix(line, "#") {
				s.Comments = append(s.Comments, line)
			} else {
				s.Lines = append(s.Lines, line)
			}
		}
		if s.first != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// parseCandidates finds the single candidate definition section and parses
// every line in it.
func parseCandidates(sections []Section) (map[string]ranking.Candidate, error) {
	var found []Section
	for _, s := range sections {
		if slices.ContainsFunc(s.Lines, func(l string) bool { return strings.HasPrefix(l, CandidatePrefix) }) {
			found = append(found, s)
		}
	}
	if len(found) != 1 {
		return nil, violation(errors.KindStructure,
			"expected all candidate definitions in one section, found "+strconv.Itoa(len(found)), "")
	}

	candidates := make(map[string]ranking.Candidate, len(found[0].Lines))
	for _, line := range found[0].Lines {
		id, name, err := ParseCandidateDefinition(line)
		if err != nil {
			return nil, err
		}
		if _, dup := candidates[id]; dup {
			return nil, violation(errors.KindUniqueness, "candidate id "+quote(id)+" defined twice", line)
		}
		candidates[id] = name
	}
	return candidates, nil
}

// checkPlacement verifies that at least one final pile exists and that
// ballot-shaped lines only appear in the sections that may hold them.
func checkPlacement(sections []Section, invalid int) error {
	piles := 0
	for i, s := range sections {
		if s.isFinalPile() {
			piles++
		} else if line, ok := firstMatch(s.Lines, IsValidBallotLine); ok {
			return violation(errors.KindStructure, "unexpected valid ballot outside of the final pile section", line)
		}
		if i != invalid {
			if line, ok := firstMatch(s.Lines, IsInvalidBallotLine); ok {
				return violation(errors.KindStructure, "unexpected invalid ballot outside of the invalid ballots section", line)
			}
		}
	}
	if piles == 0 {
		return violation(errors.KindStructure, "expected at least one final pile section", "")
	}
	return nil
}

func firstMatch(lines []string, match func(string) bool) (string, bool) {
	for _, l := range lines {
		if match(l) {
			return l, true
		}
	}
	return "", false
}

// Tally aggregates the valid ballots into a frequency distribution.
func (r *Report) Tally() ranking.Distribution {
	var c ranking.Counter
	for _, b := range r.Ballots {
		if b.Valid {
			c.Add(b.Ranking, 1)
		}
	}
	return c.Distribution()
}

// Stats summarizes a report.
type Stats struct {
	Candidates int    `json:"candidates" yaml:"candidates"`
	Valid      int    `json:"valid" yaml:"valid"`
	Invalid    int    `json:"invalid" yaml:"invalid"`
	Tied       int    `json:"tied" yaml:"tied"`
	Bullet     int    `json:"bullet" yaml:"bullet"`
	Piles      []Pile `json:"piles" yaml:"piles"`
}

// Stats counts ballots by kind. Tied ballots rank at least two candidates
// equally; bullet votes rank exactly one candidate.
func (r *Report) Stats() Stats {
	st := Stats{Candidates: len(r.Candidates), Piles: slices.Clone(r.Piles)}
	for _, b := range r.Ballots {
		if !b.Valid {
			st.Invalid++
			continue
		}
		st.Valid++
		if b.Ranking.HasTies() {
			st.Tied++
		}
		if len(b.Ranking.Candidates()) == 1 {
			st.Bullet++
		}
	}
	return st
}
