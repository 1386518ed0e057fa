package reconcile_test

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tallycheck/pkg/alias"
	"github.com/agentstation/tallycheck/pkg/electowidget"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/finalpiles"
	"github.com/agentstation/tallycheck/pkg/ranking"
	"github.com/agentstation/tallycheck/pkg/reconcile"
)

func rank(tiers ...[]ranking.Candidate) ranking.Ranking {
	return ranking.MustNew(tiers...)
}

func dist(entries map[*ranking.Ranking]int) ranking.Distribution {
	var c ranking.Counter
	for r, n := range entries {
		c.Add(*r, n)
	}
	return c.Distribution()
}

var (
	kissFirst   = rank([]ranking.Candidate{"Bob Kiss"}, []ranking.Candidate{"Kurt Wright"})
	wrightFirst = rank([]ranking.Candidate{"Kurt Wright"}, []ranking.Candidate{"Bob Kiss"})
	kissOnly    = rank([]ranking.Candidate{"Bob Kiss"})

	shortKiss   = rank([]ranking.Candidate{"Kiss"}, []ranking.Candidate{"Wright"})
	shortWright = rank([]ranking.Candidate{"Wright"}, []ranking.Candidate{"Kiss"})
	shortOnly   = rank([]ranking.Candidate{"Kiss"})
	wrightOnly  = rank([]ranking.Candidate{"Wright"})
)

func official() ranking.Distribution {
	return dist(map[*ranking.Ranking]int{&kissFirst: 3, &wrightFirst: 2, &kissOnly: 1})
}

func TestCompareMatch(t *testing.T) {
	community := dist(map[*ranking.Ranking]int{&shortKiss: 3, &shortWright: 2, &shortOnly: 1})

	cs, err := reconcile.Verify(official(), community, alias.Burlington2009().Func())
	require.NoError(t, err)
	assert.False(t, cs.HasChanges())
	assert.Equal(t, 6, cs.Summary.CommunityBallots)
	assert.Contains(t, cs.String(), "match")
}

func TestCompareDifferences(t *testing.T) {
	tests := []struct {
		name       string
		community  map[*ranking.Ranking]int
		missing    []string
		extra      []string
		mismatched []string
	}{
		{
			name:       "single altered count",
			community:  map[*ranking.Ranking]int{&shortKiss: 3, &shortWright: 2, &shortOnly: 2},
			mismatched: []string{"Bob Kiss"},
		},
		{
			name:      "missing ranking",
			community: map[*ranking.Ranking]int{&shortKiss: 3, &shortWright: 2},
			missing:   []string{"Bob Kiss"},
		},
		{
			name:      "extra ranking",
			community: map[*ranking.Ranking]int{&shortKiss: 3, &shortWright: 2, &shortOnly: 1, &wrightOnly: 1},
			extra:     []string{"Kurt Wright"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := alias.Burlington2009().Func()
			cs, err := reconcile.Verify(official(), dist(tt.community), fn)
			require.Error(t, err)
			require.NotNil(t, cs)
			assert.True(t, errors.IsMismatch(err))

			var mm *errors.MismatchError
			require.ErrorAs(t, err, &mm)

			var missing, extra, mismatched []string
			for _, e := range cs.Missing {
				missing = append(missing, e.Ranking.String())
			}
			for _, e := range cs.Extra {
				extra = append(extra, e.Ranking.String())
			}
			for _, c := range cs.Mismatched {
				mismatched = append(mismatched, c.Ranking.String())
			}
			if diff := cmp.Diff(tt.missing, missing); diff != "" {
				t.Errorf("missing (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.extra, extra); diff != "" {
				t.Errorf("extra (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.mismatched, mismatched); diff != "" {
				t.Errorf("mismatched (-want +got):\n%s", diff)
			}
			assert.Len(t, mm.Missing, len(tt.missing))
			assert.Len(t, mm.Extra, len(tt.extra))
			assert.Len(t, mm.Mismatched, len(tt.mismatched))
			assert.Contains(t, cs.String(), "differ")
		})
	}
}

func TestCompareAliasFailures(t *testing.T) {
	t.Run("unknown name", func(t *testing.T) {
		stranger := rank([]ranking.Candidate{"Sanders"})
		community := dist(map[*ranking.Ranking]int{&stranger: 1})
		_, err := reconcile.Compare(official(), community, alias.Burlington2009().Func())
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrReference)
	})

	t.Run("two names collapse into one", func(t *testing.T) {
		both := rank([]ranking.Candidate{"Kiss"}, []ranking.Candidate{"Bob"})
		tbl, err := alias.NewTable(map[string]string{"Kiss": "Bob Kiss", "Bob": "Bob Kiss"})
		require.NoError(t, err)
		community := dist(map[*ranking.Ranking]int{&both: 1})
		_, err = reconcile.Compare(official(), community, tbl.Func())
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUniqueness)
	})
}

func TestRenameSumsCollapsedRankings(t *testing.T) {
	lower := rank([]ranking.Candidate{"kiss"})
	community := dist(map[*ranking.Ranking]int{&shortOnly: 2, &lower: 3})

	tbl, err := alias.NewTable(map[string]string{"Kiss": "Bob Kiss"}, alias.WithCaseFolding(true))
	require.NoError(t, err)

	renamed, err := reconcile.Rename(community, tbl.Func())
	require.NoError(t, err)
	assert.Equal(t, 1, renamed.Len())
	assert.Equal(t, 5, renamed.Count(kissOnly))
}

func TestCompareNilAliasIsIdentity(t *testing.T) {
	cs, err := reconcile.Compare(official(), official(), nil)
	require.NoError(t, err)
	assert.False(t, cs.HasChanges())
}

// End to end: both parsers feed the reconciler. Altering any single count
// on the community side must be detected.
func TestReportAgainstWidget(t *testing.T) {
	report := "" +
		".CANDIDATE C01, \"Bob Kiss\"\r\n" +
		".CANDIDATE C02, \"Kurt Wright\"\r\n" +
		"\r\n" +
		".FINAL-PILE C01\r\n" +
		"000001-00-0001, 1) C01,C02\r\n" +
		"000002-00-0002, 1) C01,C02\r\n" +
		"000003-00-0003, 1) C01\r\n" +
		"\r\n" +
		".FINAL-PILE C02\r\n" +
		"000004-00-0004, 1) C02,C01\r\n" +
		"000005-00-0005, 1) C01=C02\r\n" +
		"\r\n" +
		finalpiles.InvalidBallotsMarker + "\r\n" +
		"000006-00-0006, 0) \r\n"

	rep, err := finalpiles.Parse(report)
	require.NoError(t, err)

	widget := func(counts [4]int) string {
		return `"inline_ballots": [` +
			`{"vote": {"Kiss": 2, "Wright": 1}, "qty": ` + strconv.Itoa(counts[0]) + `},` +
			`{"vote": {"Kiss": 1}, "qty": ` + strconv.Itoa(counts[1]) + `},` +
			`{"vote": {"Wright": 2, "Kiss": 1}, "qty": ` + strconv.Itoa(counts[2]) + `},` +
			`{"vote": {"Wright": 1, "Kiss": 1}, "qty": ` + strconv.Itoa(counts[3]) + `}]`
	}
	fn := alias.Burlington2009().Func()

	good := [4]int{2, 1, 1, 1}
	doc, err := electowidget.Decode(widget(good))
	require.NoError(t, err)
	_, err = reconcile.Verify(rep.Tally(), doc.Distribution, fn)
	require.NoError(t, err)

	for i := range good {
		altered := good
		altered[i]++
		doc, err := electowidget.Decode(widget(altered))
		require.NoError(t, err)
		_, err = reconcile.Verify(rep.Tally(), doc.Distribution, fn)
		assert.True(t, errors.IsMismatch(err), "altering record %d must be detected", i)
	}
}
