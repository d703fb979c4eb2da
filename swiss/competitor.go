/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
)

// CompetitorID is the stable identity of a competitor. It is the only thing
// stored in pairing and history records.
type CompetitorID int64

// Competitor is one entrant (song, team, list item) in a session.
type Competitor struct {
	ID            CompetitorID `json:"id"`
	Name          string       `json:"name,omitempty"`
	OriginalOrder int          `json:"originalOrder"`
	Score         float64      `json:"score"`
	ByePassed     bool         `json:"byePassed,omitempty"`
}

// Seed is the initialization input for one competitor.
type Seed struct {
	ID           CompetitorID
	Name         string
	DisplayOrder int
	InitialScore float64
}

func (c Competitor) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%v(%v)", c.Name, c.ID)
	}
	return fmt.Sprintf("#%v", c.ID)
}

// rankLess is the canonical ranking key: score descending, then original
// seed order ascending. ID breaks the (invalid) case of equal seed orders so
// the ordering stays total.
func rankLess(a, b Competitor) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.OriginalOrder != b.OriginalOrder {
		return a.OriginalOrder < b.OriginalOrder
	}
	return a.ID < b.ID
}

// SortRanking sorts competitors in place by (score desc, originalOrder asc).
func SortRanking(cs []Competitor) {
	sort.Slice(cs, func(i, j int) bool {
		return rankLess(cs[i], cs[j])
	})
}
