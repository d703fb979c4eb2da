/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, n int, cfg Config) *Session {
	s, err := NewSession("test", seeds(n), cfg)
	require.NoError(t, err)
	return s
}

func resultsFor(round Round, outcome Outcome) []MatchResult {
	out := make([]MatchResult, 0, len(round.Pairings))
	for _, p := range round.Pairings {
		out = append(out, MatchResult{A: p.A, B: p.B, Outcome: outcome})
	}
	return out
}

func score(t *testing.T, s *Session, id CompetitorID) float64 {
	c, ok := s.Competitor(id)
	require.True(t, ok)
	return c.Score
}

func TestFourCompetitorTournament(t *testing.T) {
	s := newTestSession(t, 4, Config{})

	r1, err := s.NextRound()
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Number)
	assert.Equal(t, []Pairing{{1, 1, 2}, {2, 3, 4}}, r1.Pairings)
	assert.Nil(t, r1.Bye)
	assert.Equal(t, StatePairingGenerated, s.State())

	require.NoError(t, s.SubmitResults(resultsFor(r1, OutcomeAWins)))
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 1.0, score(t, s, 1))
	assert.Equal(t, 0.0, score(t, s, 2))

	r2, err := s.NextRound()
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{1, 1, 3}, {2, 2, 4}}, r2.Pairings)
	assert.True(t, r2.HasSamePointPairing)
}

func TestFiveCompetitorsBye(t *testing.T) {
	s := newTestSession(t, 5, Config{})

	r1, err := s.NextRound()
	require.NoError(t, err)
	require.NotNil(t, r1.Bye)
	assert.Equal(t, CompetitorID(5), *r1.Bye)
	assert.Equal(t, []Pairing{{1, 1, 2}, {2, 3, 4}}, r1.Pairings)

	require.NoError(t, s.SubmitResults(resultsFor(r1, OutcomeAWins)))
	e, _ := s.Competitor(5)
	assert.Equal(t, 1.0, e.Score)
	assert.True(t, e.ByePassed)

	applied := s.Rounds()
	require.Len(t, applied, 1)
	assert.Equal(t, map[CompetitorID]float64{1: 1, 3: 1, 5: 1}, applied[0].Points)

	// ranking is now 1, 3, 5 on one point and 2, 4 on zero
	r2, err := s.NextRound()
	require.NoError(t, err)
	require.NotNil(t, r2.Bye)
	assert.Equal(t, CompetitorID(4), *r2.Bye)
	assert.Equal(t, []Pairing{{1, 1, 3}, {2, 5, 2}}, r2.Pairings)
	assert.True(t, r2.HasSamePointPairing)
}

func TestReportResultValidation(t *testing.T) {
	s := newTestSession(t, 4, Config{})
	_, err := s.NextRound()
	require.NoError(t, err)

	err = s.ReportResult(MatchResult{A: 1, B: 3, Outcome: OutcomeAWins})
	assert.ErrorIs(t, err, ErrInvalidResult)
	assert.Equal(t, StatePairingGenerated, s.State())

	err = s.ReportResult(MatchResult{A: 1, B: 99, Outcome: OutcomeAWins})
	assert.ErrorIs(t, err, ErrInvalidResult)
	assert.ErrorIs(t, err, ErrUnknownCompetitor)

	err = s.ReportResult(MatchResult{A: 1, B: 2, Outcome: Outcome(42)})
	assert.ErrorIs(t, err, ErrInvalidResult)

	// reported in reverse orientation
	require.NoError(t, s.ReportResult(MatchResult{A: 2, B: 1, Outcome: OutcomeAWins}))
	assert.Equal(t, StateResultsPending, s.State())

	err = s.ReportResult(MatchResult{A: 1, B: 2, Outcome: OutcomeDraw})
	assert.ErrorIs(t, err, ErrInvalidResult, "already reported")

	err = s.Commit()
	assert.ErrorIs(t, err, ErrResultsIncomplete)
	assert.Equal(t, StateResultsPending, s.State())
	assert.Equal(t, 0.0, score(t, s, 2), "nothing applied before commit")

	require.NoError(t, s.ReportResult(MatchResult{A: 3, B: 4, Outcome: OutcomeDraw}))
	require.NoError(t, s.Commit())

	assert.Equal(t, 0.0, score(t, s, 1))
	assert.Equal(t, 1.0, score(t, s, 2))
	assert.Equal(t, 0.5, score(t, s, 3))
	assert.Equal(t, 0.5, score(t, s, 4))
	assert.True(t, s.HasPlayed(1, 2))
	assert.True(t, s.HasPlayed(4, 3))
	assert.False(t, s.HasPlayed(1, 3))

	rounds := s.Rounds()
	require.Len(t, rounds, 1)
	assert.Equal(t, MatchResult{A: 1, B: 2, Outcome: OutcomeBWins}, rounds[0].Results[0])
}

func TestSubmitResultsIsAtomic(t *testing.T) {
	s := newTestSession(t, 4, Config{})
	r1, err := s.NextRound()
	require.NoError(t, err)

	bad := []MatchResult{
		{A: 1, B: 2, Outcome: OutcomeAWins},
		{A: 3, B: 1, Outcome: OutcomeAWins},
	}
	assert.ErrorIs(t, s.SubmitResults(bad), ErrInvalidResult)
	assert.Equal(t, StatePairingGenerated, s.State())

	partial := resultsFor(r1, OutcomeDraw)[:1]
	assert.ErrorIs(t, s.SubmitResults(partial), ErrResultsIncomplete)

	// nothing from the rejected batches was staged
	require.NoError(t, s.ReportResult(MatchResult{A: 1, B: 2, Outcome: OutcomeDraw}))
	require.NoError(t, s.SubmitResults([]MatchResult{{A: 3, B: 4, Outcome: OutcomeBWins}}))
	assert.Equal(t, 1.0, score(t, s, 4))
	assert.Equal(t, 0.5, score(t, s, 1))
}

func TestStateGuards(t *testing.T) {
	s := newTestSession(t, 4, Config{})

	assert.ErrorIs(t, s.Commit(), ErrInvalidState)
	assert.ErrorIs(t, s.Abandon(), ErrInvalidState)
	assert.ErrorIs(t, s.ReportResult(MatchResult{A: 1, B: 2}), ErrInvalidState)

	_, err := s.NextRound()
	require.NoError(t, err)
	_, err = s.NextRound()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAbandon(t *testing.T) {
	s := newTestSession(t, 6, Config{})
	r1, err := s.NextRound()
	require.NoError(t, err)
	require.NoError(t, s.SubmitResults(resultsFor(r1, OutcomeAWins)))

	r2, err := s.NextRound()
	require.NoError(t, err)
	require.NoError(t, s.ReportResult(MatchResult{A: r2.Pairings[0].A,
		B: r2.Pairings[0].B, Outcome: OutcomeDraw}))
	require.NoError(t, s.Abandon())
	assert.Equal(t, StateReady, s.State())
	_, open := s.CurrentRound()
	assert.False(t, open)

	again, err := s.NextRound()
	require.NoError(t, err)
	assert.Equal(t, r2, again)
	assert.Len(t, s.Rounds(), 1)
}

func TestRoundCap(t *testing.T) {
	s := newTestSession(t, 4, Config{MaxRounds: 1})
	r1, err := s.NextRound()
	require.NoError(t, err)
	require.NoError(t, s.SubmitResults(resultsFor(r1, OutcomeAWins)))

	_, err = s.NextRound()
	assert.ErrorIs(t, err, ErrRoundCapExceeded)
	assert.Equal(t, StateTerminated, s.State())
	assert.ErrorIs(t, s.Err(), ErrRoundCapExceeded)

	_, err = s.NextRound()
	assert.ErrorIs(t, err, ErrRoundCapExceeded)
}

func TestTerminatesWhenEveryoneHasMet(t *testing.T) {
	s := newTestSession(t, 2, Config{})
	r1, err := s.NextRound()
	require.NoError(t, err)
	require.NoError(t, s.SubmitResults(resultsFor(r1, OutcomeAWins)))

	_, err = s.NextRound()
	assert.ErrorIs(t, err, ErrNoLegalPairing)
	assert.Equal(t, StateTerminated, s.State())
	assert.False(t, CanContinue(s.Ranking(), s.ledger))
}

// TestByeOnlyRound covers a field where every remaining unplayed pair includes
// the bye recipient: nothing pairs, but the point groups are not exhausted.
func TestByeOnlyRound(t *testing.T) {
	snap := &Snapshot{
		SessionID:    "bye-only",
		Standings:    map[CompetitorID]float64{1: 2.5, 2: 2, 3: 3, 4: 2, 5: 2.5},
		CurrentRound: 1,
	}
	for _, c := range seeds(5) {
		snap.Competitors = append(snap.Competitors, SnapshotCompetitor{
			ID: c.ID, Name: c.Name, OriginalOrder: c.DisplayOrder})
	}
	for a := CompetitorID(1); a <= 5; a++ {
		for b := a + 1; b <= 5; b++ {
			k := MakePairKey(a, b)
			if k == MakePairKey(2, 4) || k == MakePairKey(4, 5) {
				continue
			}
			snap.PairingHistory = append(snap.PairingHistory, [2]CompetitorID{a, b})
		}
	}
	s, err := Restore(snap, Config{})
	require.NoError(t, err)
	require.True(t, CanContinue(s.Ranking(), s.ledger))

	r1, err := s.NextRound()
	require.NoError(t, err)
	assert.Empty(t, r1.Pairings)
	require.NotNil(t, r1.Bye)
	assert.Equal(t, CompetitorID(4), *r1.Bye)
	assert.Equal(t, []CompetitorID{3, 1, 5, 2}, r1.Unpaired)

	require.NoError(t, s.SubmitResults(nil))
	assert.Equal(t, 3.0, score(t, s, 4))
	assert.Equal(t, StateReady, s.State())

	r2, err := s.NextRound()
	require.NoError(t, err)
	assert.Equal(t, []Pairing{{1, 4, 5}}, r2.Pairings)
	require.NotNil(t, r2.Bye)
	assert.Equal(t, CompetitorID(2), *r2.Bye)
	assert.Equal(t, []CompetitorID{3, 1}, r2.Unpaired)
}

func TestStopWhenGroupsExhausted(t *testing.T) {
	// with the A side always winning, round 3 leaves scores 3, 2, 1, 0
	s := newTestSession(t, 4, Config{StopWhenGroupsExhausted: true})
	for i := 0; i < 10 && s.State() != StateTerminated; i++ {
		r, err := s.NextRound()
		require.NoError(t, err)
		require.NoError(t, s.SubmitResults(resultsFor(r, OutcomeAWins)))
	}
	require.Equal(t, StateTerminated, s.State())
	assert.Len(t, s.Rounds(), 3)
	assert.ErrorIs(t, s.Err(), ErrNoLegalPairing)
	assert.False(t, CanContinue(s.Ranking(), s.ledger))
}

// TestRandomTournaments drives sessions of every size with random outcomes
// and checks the per-round invariants until each one terminates.
func TestRandomTournaments(t *testing.T) {
	for _, policy := range []ByePolicy{ByePolicyLowest, ByePolicyAvoidRepeat} {
		for n := 1; n <= 11; n++ {
			rng := rand.New(rand.NewSource(int64(n)))
			s := newTestSession(t, n, Config{ByePolicy: policy})
			maxRounds := n*n*n + 10

			for i := 0; i <= maxRounds; i++ {
				before := s.Ranking()
				played := s.ledger.Clone()

				r, err := s.NextRound()
				if err != nil {
					assert.ErrorIs(t, err, ErrNoLegalPairing)
					break
				}
				require.Less(t, i, maxRounds, "n=%v never terminated", n)

				seen := make(map[CompetitorID]int, n)
				for _, p := range r.Pairings {
					assert.False(t, played.HasPlayed(p.A, p.B), "n=%v repeat %v-%v",
						n, p.A, p.B)
					seen[p.A]++
					seen[p.B]++
				}
				for _, id := range r.Unpaired {
					seen[id]++
				}
				if n%2 == 1 {
					require.NotNil(t, r.Bye)
					seen[*r.Bye]++
					if policy == ByePolicyLowest {
						assert.Equal(t, before[len(before)-1].ID, *r.Bye)
					}
				} else {
					assert.Nil(t, r.Bye)
				}
				assert.Len(t, seen, n)
				for id, cnt := range seen {
					assert.Equal(t, 1, cnt, "n=%v competitor %v", n, id)
				}

				results := make([]MatchResult, 0, len(r.Pairings))
				for _, p := range r.Pairings {
					results = append(results, MatchResult{A: p.A, B: p.B,
						Outcome: Outcome(rng.Intn(3))})
				}
				require.NoError(t, s.SubmitResults(results))

				for _, c := range before {
					after, _ := s.Competitor(c.ID)
					assert.GreaterOrEqual(t, after.Score, c.Score)
				}
			}
			assert.Equal(t, StateTerminated, s.State(), "n=%v", n)
		}
	}
}

func TestPlacements(t *testing.T) {
	s := newTestSession(t, 4, Config{})
	_, err := s.NextRound()
	require.NoError(t, err)
	require.NoError(t, s.SubmitResults([]MatchResult{
		{A: 1, B: 2, Outcome: OutcomeBWins},
		{A: 3, B: 4, Outcome: OutcomeDraw},
	}))

	var got []CompetitorID
	for i, p := range s.Placements() {
		assert.Equal(t, i+1, p.Position)
		got = append(got, p.Competitor.ID)
	}
	assert.Equal(t, []CompetitorID{2, 3, 4, 1}, got)
}
