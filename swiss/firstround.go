/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"math/rand"
	"sort"
)

// FirstRoundMethod selects how round 1 is paired. Later rounds always use
// GeneratePairings.
type FirstRoundMethod int

const (
	// FirstRoundSequential pairs 1-2, 3-4, ... in ranking order.
	FirstRoundSequential FirstRoundMethod = iota
	// FirstRoundSplitHalf pairs the top half against the bottom half:
	// 1 vs n/2+1, 2 vs n/2+2, ...
	FirstRoundSplitHalf
	// FirstRoundAlphabetical orders by name, then pairs sequentially. Names
	// compare by code point, so upper case sorts before lower case.
	FirstRoundAlphabetical
	// FirstRoundRandom shuffles with the configured seed, then pairs
	// sequentially.
	FirstRoundRandom
)

func (m FirstRoundMethod) String() string {
	switch m {
	case FirstRoundSequential:
		return "sequential"
	case FirstRoundSplitHalf:
		return "split-half"
	case FirstRoundAlphabetical:
		return "alphabetical"
	case FirstRoundRandom:
		return "random"
	default:
		return "?"
	}
}

func ParseFirstRoundMethod(s string) (FirstRoundMethod, error) {
	switch s {
	case "", "sequential":
		return FirstRoundSequential, nil
	case "split-half":
		return FirstRoundSplitHalf, nil
	case "alphabetical":
		return FirstRoundAlphabetical, nil
	case "random":
		return FirstRoundRandom, nil
	}
	return 0, fmt.Errorf("unknown first round method %q", s)
}

func (m FirstRoundMethod) MarshalText() ([]byte, error) {
	if m.String() == "?" {
		return nil, fmt.Errorf("unknown first round method %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *FirstRoundMethod) UnmarshalText(text []byte) error {
	v, err := ParseFirstRoundMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// firstRoundPairings pairs the post-bye round 1 pool. The ledger is empty at
// this point so every pair is legal.
func firstRoundPairings(pool []Competitor, method FirstRoundMethod,
	seed int64) (PairingSet, error) {

	if len(pool)%2 != 0 {
		return PairingSet{}, fmt.Errorf("%w: %v competitors", ErrOddPairingPool,
			len(pool))
	}

	ordered := append([]Competitor(nil), pool...)
	switch method {
	case FirstRoundSequential:
		return GeneratePairings(ordered, NewLedger())
	case FirstRoundSplitHalf:
		return splitHalfPairings(ordered), nil
	case FirstRoundAlphabetical:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Name < ordered[j].Name
		})
	case FirstRoundRandom:
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	default:
		return PairingSet{}, fmt.Errorf("unknown first round method %d", int(method))
	}

	var set PairingSet
	pairs := make([][2]Competitor, 0, len(ordered)/2)
	for i := 0; i+1 < len(ordered); i += 2 {
		pairs = append(pairs, [2]Competitor{ordered[i], ordered[i+1]})
	}
	set.add(pairs)

	return set, nil
}

// splitHalfPairings pairs the top remaining competitor with the one halfway
// down the remaining list, then removes both.
func splitHalfPairings(remaining []Competitor) PairingSet {
	var set PairingSet
	var pairs [][2]Competitor
	for len(remaining) >= 2 {
		n := len(remaining)
		pairs = append(pairs, [2]Competitor{remaining[0], remaining[n/2]})
		remaining = removeIndex(remaining, n/2)
		remaining = removeIndex(remaining, 0)
	}
	set.add(pairs)

	return set
}

func removeIndex(s []Competitor, i int) []Competitor {
	return append(s[:i], s[i+1:]...)
}
