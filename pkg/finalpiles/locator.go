package finalpiles

import (
	"strconv"

	"github.com/agentstation/tallycheck/pkg/errors"
)

// InvalidSectionLocator decides which section holds the invalid ballots.
// It receives every non-blank section in report order, including sections
// made only of comments, and returns the index of the invalid ballots
// section or -1 when the report has none.
type InvalidSectionLocator func(sections []Section) (int, error)

// CommentMarkerLocator relies on the human-readable `# INVALID BALLOTS`
// comment that opens the last section of reports seen so far. The format has
// no structural header for that section. A marker section with no ballot
// lines means the report has zero invalid ballots.
func CommentMarkerLocator(sections []Section) (int, error) {
	last := len(sections) - 1
	if last < 0 || sections[last].FirstLine() != InvalidBallotsMarker {
		return -1, violation(errors.KindStructure,
			"expected last section to start with "+quote(InvalidBallotsMarker), "")
	}
	if len(sections[last].Lines) == 0 {
		return -1, nil
	}
	return last, nil
}

// StatusColumnLocator picks the section whose lines carry the `0)` status
// column instead of trusting the comment. At most one section may hold
// invalid ballots, and that section must hold nothing else.
func StatusColumnLocator(sections []Section) (int, error) {
	found := -1
	for i, s := range sections {
		if _, ok := firstMatch(s.Lines, IsInvalidBallotLine); !ok {
			continue
		}
		if found >= 0 {
			return -1, violation(errors.KindStructure,
				"invalid ballots found in sections "+strconv.Itoa(found+1)+" and "+strconv.Itoa(i+1), "")
		}
		found = i
	}
	return found, nil
}
