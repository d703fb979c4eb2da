/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
)

const (
	WinPoints  = 1.0
	DrawPoints = 0.5
	ByePoints  = 1.0
)

// Standings owns every Competitor of a session. Competitors live in an
// arena slice in seed order and are addressed through an id index.
type Standings struct {
	competitors []Competitor
	index       map[CompetitorID]int
}

// NewStandings creates the store from initialization input. Seeds keep
// their DisplayOrder as the immutable tie-break key.
func NewStandings(seeds []Seed) (*Standings, error) {
	s := &Standings{
		competitors: make([]Competitor, 0, len(seeds)),
		index:       make(map[CompetitorID]int, len(seeds)),
	}
	orders := make(map[int]CompetitorID, len(seeds))
	for _, seed := range seeds {
		if _, ok := s.index[seed.ID]; ok {
			return nil, fmt.Errorf("%w: id %v", ErrDuplicateCompetitor, seed.ID)
		}
		if other, ok := orders[seed.DisplayOrder]; ok {
			return nil, fmt.Errorf("%w: ids %v and %v share display order %v",
				ErrDuplicateCompetitor, other, seed.ID, seed.DisplayOrder)
		}
		if seed.InitialScore < 0 {
			return nil, fmt.Errorf("swiss.standings: negative initial score %v for %v",
				seed.InitialScore, seed.ID)
		}
		orders[seed.DisplayOrder] = seed.ID
		s.index[seed.ID] = len(s.competitors)
		s.competitors = append(s.competitors, Competitor{
			ID:            seed.ID,
			Name:          seed.Name,
			OriginalOrder: seed.DisplayOrder,
			Score:         seed.InitialScore,
		})
	}

	return s, nil
}

func (s *Standings) Len() int {
	return len(s.competitors)
}

func (s *Standings) Get(id CompetitorID) (Competitor, bool) {
	idx, ok := s.index[id]
	if !ok {
		return Competitor{}, false
	}
	return s.competitors[idx], true
}

// Competitors returns a copy of every competitor in seed (arena) order.
func (s *Standings) Competitors() []Competitor {
	out := make([]Competitor, len(s.competitors))
	copy(out, s.competitors)
	return out
}

// CurrentRanking returns a sorted snapshot of the standings.
func (s *Standings) CurrentRanking() []Competitor {
	out := s.Competitors()
	SortRanking(out)
	return out
}

// ApplyResult credits points for one match result. It is the only mutator
// of a competitor's score besides the bye credit.
func (s *Standings) ApplyResult(r MatchResult) error {
	aIdx, ok := s.index[r.A]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownCompetitor, r.A)
	}
	bIdx, ok := s.index[r.B]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownCompetitor, r.B)
	}
	aPts, bPts, err := r.Outcome.points()
	if err != nil {
		return err
	}
	s.competitors[aIdx].Score += aPts
	s.competitors[bIdx].Score += bPts

	return nil
}

func (s *Standings) creditBye(id CompetitorID) error {
	idx, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownCompetitor, id)
	}
	s.competitors[idx].Score += ByePoints
	s.competitors[idx].ByePassed = true

	return nil
}

func (s *Standings) clone() *Standings {
	out := &Standings{
		competitors: s.Competitors(),
		index:       make(map[CompetitorID]int, len(s.index)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}
