/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "fmt"

// ByePolicy decides who sits out when the population is odd.
type ByePolicy int

const (
	// ByePolicyLowest always gives the bye to the lowest-ranked competitor,
	// even if they already had one.
	ByePolicyLowest ByePolicy = iota
	// ByePolicyAvoidRepeat gives the bye to the lowest-ranked competitor who
	// has not had one yet, falling back to ByePolicyLowest.
	ByePolicyAvoidRepeat
)

func (p ByePolicy) String() string {
	switch p {
	case ByePolicyLowest:
		return "lowest"
	case ByePolicyAvoidRepeat:
		return "avoid-repeat"
	default:
		return "?"
	}
}

func ParseByePolicy(s string) (ByePolicy, error) {
	switch s {
	case "", "lowest":
		return ByePolicyLowest, nil
	case "avoid-repeat":
		return ByePolicyAvoidRepeat, nil
	}
	return 0, fmt.Errorf("unknown bye policy %q", s)
}

func (p ByePolicy) MarshalText() ([]byte, error) {
	if p.String() == "?" {
		return nil, fmt.Errorf("unknown bye policy %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *ByePolicy) UnmarshalText(text []byte) error {
	v, err := ParseByePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// AssignBye takes an already sorted ranking. For an even count it returns
// the ranking unchanged and no bye. For an odd count it removes the bye
// recipient and returns the even-sized remainder in ranking order.
func AssignBye(ranking []Competitor, policy ByePolicy) ([]Competitor, *Competitor) {
	if len(ranking)%2 == 0 {
		return ranking, nil
	}

	pick := len(ranking) - 1
	if policy == ByePolicyAvoidRepeat {
		for i := len(ranking) - 1; i >= 0; i-- {
			if !ranking[i].ByePassed {
				pick = i
				break
			}
		}
	}

	bye := ranking[pick]
	rest := make([]Competitor, 0, len(ranking)-1)
	rest = append(rest, ranking[:pick]...)
	rest = append(rest, ranking[pick+1:]...)

	return rest, &bye
}
