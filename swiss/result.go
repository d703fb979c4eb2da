/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// Outcome is the result of one pairing from the point of view of its A side.
type Outcome int

const (
	OutcomeAWins Outcome = iota
	OutcomeBWins
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAWins:
		return "a-wins"
	case OutcomeBWins:
		return "b-wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "?"
	}
}

// ParseOutcome accepts the String() forms plus the usual crosstable
// shorthands ("1-0", "0-1", "½-½", "1/2-1/2", "=").
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a-wins", "a", "1-0", "w":
		return OutcomeAWins, nil
	case "b-wins", "b", "0-1", "l":
		return OutcomeBWins, nil
	case "draw", "d", "=", "½-½", "1/2-1/2", "0.5-0.5":
		return OutcomeDraw, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	if _, _, err := o.points(); err != nil {
		return nil, err
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o Outcome) points() (float64, float64, error) {
	switch o {
	case OutcomeAWins:
		return WinPoints, 0, nil
	case OutcomeBWins:
		return 0, WinPoints, nil
	case OutcomeDraw:
		return DrawPoints, DrawPoints, nil
	}
	return 0, 0, fmt.Errorf("%w: outcome %d", ErrInvalidResult, int(o))
}

// MatchResult is reported by the caller for one issued pairing.
type MatchResult struct {
	A       CompetitorID `json:"a"`
	B       CompetitorID `json:"b"`
	Outcome Outcome      `json:"outcome"`
}

// normalized returns the result re-expressed against the pairing's A/B
// orientation, so callers may report either side first.
func (r MatchResult) normalized(p Pairing) MatchResult {
	if r.A == p.A && r.B == p.B {
		return r
	}
	out := MatchResult{A: p.A, B: p.B, Outcome: r.Outcome}
	switch r.Outcome {
	case OutcomeAWins:
		out.Outcome = OutcomeBWins
	case OutcomeBWins:
		out.Outcome = OutcomeAWins
	}
	return out
}
