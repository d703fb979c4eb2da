/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// CanContinue reports whether any two competitors with the same score have
// not met yet. The whole population is scanned, not just the last pairing
// pool, since point groups change every round.
func CanContinue(population []Competitor, ledger *Ledger) bool {
	groups := make(map[float64][]CompetitorID)
	for _, c := range population {
		groups[c.Score] = append(groups[c.Score], c.ID)
	}

	for _, ids := range groups {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if !ledger.HasPlayed(ids[i], ids[j]) {
					return true
				}
			}
		}
	}

	return false
}
