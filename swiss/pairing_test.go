/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(scores ...float64) []Competitor {
	out := make([]Competitor, 0, len(scores))
	for i, s := range scores {
		out = append(out, Competitor{
			ID:            CompetitorID(i + 1),
			OriginalOrder: i + 1,
			Score:         s,
		})
	}
	SortRanking(out)
	return out
}

func ledgerOf(t *testing.T, pairs ...[2]CompetitorID) *Ledger {
	l := NewLedger()
	for _, p := range pairs {
		require.NoError(t, l.Record(p[0], p[1]))
	}
	return l
}

func keysOf(set PairingSet) [][2]CompetitorID {
	out := make([][2]CompetitorID, 0, len(set.Pairings))
	for _, p := range set.Pairings {
		out = append(out, [2]CompetitorID{p.A, p.B})
	}
	return out
}

func TestGeneratePairings(t *testing.T) {
	cases := []struct {
		name         string
		ranking      []Competitor
		played       [][2]CompetitorID
		wantPairs    [][2]CompetitorID
		wantUnpaired []CompetitorID
		wantSame     bool
	}{
		{
			name:      "fresh group pairs adjacently",
			ranking:   ranked(0, 0, 0, 0),
			wantPairs: [][2]CompetitorID{{1, 2}, {3, 4}},
			wantSame:  true,
		},
		{
			name:      "winners meet winners",
			ranking:   ranked(1, 0, 1, 0),
			played:    [][2]CompetitorID{{1, 2}, {3, 4}},
			wantPairs: [][2]CompetitorID{{1, 3}, {2, 4}},
			wantSame:  true,
		},
		{
			name:      "skips a played opponent within the group",
			ranking:   ranked(1, 1, 1, 1),
			played:    [][2]CompetitorID{{1, 2}},
			wantPairs: [][2]CompetitorID{{1, 3}, {2, 4}},
			wantSame:  true,
		},
		{
			name:      "deferred competitors pair across groups",
			ranking:   ranked(2, 1, 1, 0),
			played:    [][2]CompetitorID{{2, 3}},
			wantPairs: [][2]CompetitorID{{1, 2}, {3, 4}},
			wantSame:  false,
		},
		{
			name:         "exhausted competitors stay unpaired",
			ranking:      ranked(1, 1, 0, 0),
			played:       [][2]CompetitorID{{1, 2}},
			wantPairs:    [][2]CompetitorID{{3, 4}},
			wantUnpaired: []CompetitorID{1, 2},
			wantSame:     true,
		},
		{
			name:         "everyone has met",
			ranking:      ranked(1, 0),
			played:       [][2]CompetitorID{{1, 2}},
			wantUnpaired: []CompetitorID{1, 2},
		},
		{
			name:    "empty pool",
			ranking: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			set, err := GeneratePairings(c.ranking, ledgerOf(t, c.played...))
			require.NoError(t, err)

			if len(c.wantPairs) == 0 {
				assert.Empty(t, set.Pairings)
			} else {
				assert.Equal(t, c.wantPairs, keysOf(set))
			}
			assert.Equal(t, c.wantUnpaired, set.Unpaired)
			assert.Equal(t, c.wantSame, set.HasSamePointPairing)
			for i, p := range set.Pairings {
				assert.Equal(t, i+1, p.Board)
			}
		})
	}
}

func TestGeneratePairingsOddPool(t *testing.T) {
	_, err := GeneratePairings(ranked(0, 0, 0), NewLedger())
	assert.ErrorIs(t, err, ErrOddPairingPool)
}

func TestGeneratePairingsNeverRepeats(t *testing.T) {
	ranking := ranked(3, 3, 2, 2, 2, 1, 1, 0)
	played := ledgerOf(t,
		[2]CompetitorID{1, 2}, [2]CompetitorID{1, 3}, [2]CompetitorID{3, 4},
		[2]CompetitorID{3, 5}, [2]CompetitorID{4, 5}, [2]CompetitorID{6, 7},
		[2]CompetitorID{2, 8}, [2]CompetitorID{5, 8})

	set, err := GeneratePairings(ranking, played)
	require.NoError(t, err)

	seen := make(map[CompetitorID]int)
	for _, p := range set.Pairings {
		assert.False(t, played.HasPlayed(p.A, p.B), "%v-%v repeats", p.A, p.B)
		seen[p.A]++
		seen[p.B]++
	}
	for _, id := range set.Unpaired {
		seen[id]++
	}
	for _, c := range ranking {
		assert.Equal(t, 1, seen[c.ID], "competitor %v", c.ID)
	}
	assert.Len(t, seen, len(ranking))
}

func TestCanContinue(t *testing.T) {
	cases := []struct {
		name    string
		pop     []Competitor
		played  [][2]CompetitorID
		wantCan bool
	}{
		{"fresh group", ranked(0, 0, 0, 0), nil, true},
		{
			name:   "clique exhausted",
			pop:    ranked(1, 1, 1, 0),
			played: [][2]CompetitorID{{1, 2}, {1, 3}, {2, 3}},
		},
		{
			name:    "lower group still open",
			pop:     ranked(1, 1, 1, 0, 0),
			played:  [][2]CompetitorID{{1, 2}, {1, 3}, {2, 3}},
			wantCan: true,
		},
		{
			name:   "only cross-group pairs remain",
			pop:    ranked(2, 1, 0),
			played: nil,
		},
		{"single competitor", ranked(0), nil, false},
		{"empty", nil, nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.wantCan, CanContinue(c.pop, ledgerOf(t, c.played...)))
		})
	}
}
