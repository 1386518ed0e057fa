package finalpiles

import (
	"regexp"
	"strings"

	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
)

// Report grammar markers.
const (
	CandidatePrefix      = ".CANDIDATE "
	FinalPilePrefix      = ".FINAL-PILE "
	InvalidBallotsMarker = "# INVALID BALLOTS"

	sectionBreak = "\r\n\r\n"
	idLength     = len("000000-00-0000")
	sourceName   = "final-piles"
)

var (
	validBallotPrefix   = regexp.MustCompile(`^\d{6}-\d{2}-\d{4}, 1\) `)
	invalidBallotPrefix = regexp.MustCompile(`^\d{6}-\d{2}-\d{4}, 0\) `)
)

// Ballot is one identified ballot from the report. An invalid ballot always
// carries the empty ranking.
type Ballot struct {
	ID      string          `json:"id" yaml:"id"`
	Ranking ranking.Ranking `json:"ranking" yaml:"ranking"`
	Valid   bool            `json:"valid" yaml:"valid"`
}

// String renders the ballot as "id: ranking".
func (b Ballot) String() string {
	if !b.Valid {
		return b.ID + ": invalid"
	}
	return b.ID + ": " + b.Ranking.String()
}

// IsValidBallotLine reports whether line has the shape of a valid ballot.
func IsValidBallotLine(line string) bool {
	return validBallotPrefix.MatchString(line)
}

// IsInvalidBallotLine reports whether line has the shape of an invalid ballot.
func IsInvalidBallotLine(line string) bool {
	return invalidBallotPrefix.MatchString(line)
}

// ParseCandidateDefinition parses `.CANDIDATE C06, "Write-in"` into its id
// and name.
func ParseCandidateDefinition(line string) (string, ranking.Candidate, error) {
	rest, ok := strings.CutPrefix(line, CandidatePrefix)
	if !ok {
		return "", "", violation(errors.KindFormat, "expected candidate definition", line)
	}
	id, quoted, ok := strings.Cut(rest, ", ")
	if !ok {
		return "", "", violation(errors.KindFormat, "expected `id, \"name\"` in candidate definition", line)
	}
	if len(quoted) < 2 || !strings.HasPrefix(quoted, `"`) || !strings.HasSuffix(quoted, `"`) {
		return "", "", violation(errors.KindFormat, "expected quoted name", line)
	}
	return id, ranking.Candidate(quoted[1 : len(quoted)-1]), nil
}

// ParseValidBallot parses `000001-00-0123, 1) C02,C01=C03` using the
// candidate id to name map. Tiers are comma separated, most preferred first,
// and ids tied within a tier are joined by '='.
func ParseValidBallot(line string, candidates map[string]ranking.Candidate) (Ballot, error) {
	prefix := validBallotPrefix.FindString(line)
	if prefix == "" {
		return Ballot{}, violation(errors.KindFormat, "expected valid ballot line", line)
	}
	votes := line[len(prefix):]
	if votes == "" {
		return Ballot{}, violation(errors.KindFormat, "no votes in valid ballot", line)
	}

	var tiers []ranking.Tier
	for _, group := range strings.Split(votes, ",") {
		var members []ranking.Candidate
		for _, id := range strings.Split(group, "=") {
			name, ok := candidates[id]
			if !ok {
				return Ballot{}, violation(errors.KindReference, "unknown candidate id "+quote(id), line)
			}
			members = append(members, name)
		}
		tier, err := ranking.NewTier(members...)
		if err != nil {
			return Ballot{}, violation(errors.KindUniqueness, "duplicate vote in ballot", line)
		}
		tiers = append(tiers, tier)
	}

	r, err := ranking.New(tiers...)
	if err != nil {
		return Ballot{}, violation(errors.KindUniqueness, "duplicate vote in ballot", line)
	}
	return Ballot{ID: line[:idLength], Ranking: r, Valid: true}, nil
}

// ParseInvalidBallot parses `000002-00-0456, 0) `. Anything after the
// marker is a format violation.
func ParseInvalidBallot(line string) (Ballot, error) {
	prefix := invalidBallotPrefix.FindString(line)
	if prefix == "" {
		return Ballot{}, violation(errors.KindFormat, "expected invalid ballot line", line)
	}
	if len(prefix) != len(line) {
		return Ballot{}, violation(errors.KindFormat, "unexpected data for invalid ballot", line)
	}
	return Ballot{ID: line[:idLength], Valid: false}, nil
}

func violation(kind errors.Kind, assumption, line string) error {
	return errors.NewAssumptionError(sourceName, kind, assumption, line)
}

func quote(s string) string {
	return `"` + s + `"`
}
