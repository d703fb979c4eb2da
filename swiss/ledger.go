/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
)

// PairKey is an unordered competitor pair normalized so that Lo < Hi.
type PairKey struct {
	Lo CompetitorID
	Hi CompetitorID
}

func MakePairKey(a, b CompetitorID) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Ledger records which pairs have already met. Pairs are never removed.
type Ledger struct {
	played map[PairKey]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{played: make(map[PairKey]struct{})}
}

func (l *Ledger) HasPlayed(a, b CompetitorID) bool {
	_, ok := l.played[MakePairKey(a, b)]
	return ok
}

// Record adds {a, b} to the ledger. Recording a self-pair or a pair that is
// already present is an error.
func (l *Ledger) Record(a, b CompetitorID) error {
	if a == b {
		return fmt.Errorf("swiss.ledger: competitor %v cannot play itself", a)
	}
	key := MakePairKey(a, b)
	if _, ok := l.played[key]; ok {
		return fmt.Errorf("swiss.ledger: %v and %v have already played", a, b)
	}
	l.played[key] = struct{}{}

	return nil
}

func (l *Ledger) Len() int {
	return len(l.played)
}

// Pairs returns every recorded pair ordered by (Lo, Hi).
func (l *Ledger) Pairs() []PairKey {
	pairs := make([]PairKey, 0, len(l.played))
	for k := range l.played {
		pairs = append(pairs, k)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Lo != pairs[j].Lo {
			return pairs[i].Lo < pairs[j].Lo
		}
		return pairs[i].Hi < pairs[j].Hi
	})

	return pairs
}

func (l *Ledger) Clone() *Ledger {
	out := &Ledger{played: make(map[PairKey]struct{}, len(l.played))}
	for k := range l.played {
		out.played[k] = struct{}{}
	}
	return out
}
