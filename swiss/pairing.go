/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

// Pairing is one issued match. Board numbers start at 1 in the order the
// generator produced the pairs.
type Pairing struct {
	Board int          `json:"board"`
	A     CompetitorID `json:"a"`
	B     CompetitorID `json:"b"`
}

func (p Pairing) Key() PairKey {
	return MakePairKey(p.A, p.B)
}

// PairingSet is the output of one pairing pass. Unpaired holds competitors
// for whom no legal opponent remained; they sit this round out without
// points.
type PairingSet struct {
	Pairings            []Pairing
	Unpaired            []CompetitorID
	HasSamePointPairing bool
}

// GeneratePairings pairs an even-sized ranked list while never repeating a
// pair recorded in the ledger.
//
// The ranking is first split into contiguous groups of equal score. Within
// each group (highest score first) the first remaining competitor is paired
// with the first later group member it has not played; if there is none it
// is deferred. All deferred competitors are then pooled in ranking order and
// paired the same way regardless of score. Whoever is still left over stays
// unpaired.
func GeneratePairings(ranking []Competitor, ledger *Ledger) (PairingSet, error) {
	if len(ranking)%2 != 0 {
		return PairingSet{}, fmt.Errorf("%w: %v competitors", ErrOddPairingPool,
			len(ranking))
	}

	var set PairingSet
	var deferred []Competitor
	for _, group := range pointGroups(ranking) {
		pairs, left := pairFirstFit(group, ledger)
		set.add(pairs)
		deferred = append(deferred, left...)
	}

	pairs, left := pairFirstFit(deferred, ledger)
	set.add(pairs)
	for _, c := range left {
		set.Unpaired = append(set.Unpaired, c.ID)
	}

	return set, nil
}

func (set *PairingSet) add(pairs [][2]Competitor) {
	for _, p := range pairs {
		if p[0].Score == p[1].Score {
			set.HasSamePointPairing = true
		}
		set.Pairings = append(set.Pairings, Pairing{
			Board: len(set.Pairings) + 1,
			A:     p[0].ID,
			B:     p[1].ID,
		})
	}
}

// pointGroups splits a sorted ranking into runs of equal score.
func pointGroups(ranking []Competitor) [][]Competitor {
	var groups [][]Competitor
	start := 0
	for i := 1; i <= len(ranking); i++ {
		if i == len(ranking) || ranking[i].Score != ranking[start].Score {
			groups = append(groups, ranking[start:i])
			start = i
		}
	}
	return groups
}

// pairFirstFit repeatedly takes the first remaining competitor and pairs it
// with the first later competitor it has not played.
func pairFirstFit(pool []Competitor, ledger *Ledger) ([][2]Competitor, []Competitor) {
	var pairs [][2]Competitor
	var unpaired []Competitor

	remaining := append([]Competitor(nil), pool...)
	for len(remaining) > 0 {
		x := remaining[0]
		rest := remaining[1:]

		found := -1
		for i, y := range rest {
			if !ledger.HasPlayed(x.ID, y.ID) {
				found = i
				break
			}
		}
		if found < 0 {
			unpaired = append(unpaired, x)
			remaining = rest
			continue
		}

		pairs = append(pairs, [2]Competitor{x, rest[found]})
		remaining = append(rest[:found], rest[found+1:]...)
	}

	return pairs, unpaired
}
