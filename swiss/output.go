/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"

	"github.com/mikeb26/swisstd/internal"
)

func displayName(s *Session, id CompetitorID) string {
	c, ok := s.Competitor(id)
	if !ok {
		return fmt.Sprintf("#%v", id)
	}
	name := c.Name
	if name == "" {
		name = fmt.Sprintf("#%v", c.ID)
	}
	return fmt.Sprintf("%s(%v)", name, internal.ScoreToString(c.Score))
}

func resultCode(o Outcome) string {
	switch o {
	case OutcomeAWins:
		return "1-0"
	case OutcomeBWins:
		return "0-1"
	case OutcomeDraw:
		return "½-½"
	}
	return "?"
}

// BuildPairingsOutput formats the open round, or the last applied round when
// nothing is open, into aligned string output.
func BuildPairingsOutput(s *Session) string {
	round, open := s.CurrentRound()
	if !open {
		rounds := s.Rounds()
		if len(rounds) == 0 {
			return "No pairings generated yet\n"
		}
		round = rounds[len(rounds)-1]
	}

	var sb strings.Builder
	if open {
		sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", round.Number))
	} else {
		sb.WriteString(fmt.Sprintf("Round %v Results:\n\n", round.Number))
	}

	results := make(map[PairKey]MatchResult, len(round.Results))
	for _, r := range round.Results {
		results[r.key()] = r
	}

	type row struct{ board, a, result, b string }
	var rows []row
	for _, p := range round.Pairings {
		res := ""
		if r, ok := results[p.Key()]; ok {
			res = resultCode(r.Outcome)
		}
		rows = append(rows, row{
			board:  fmt.Sprintf("%d.", p.Board),
			a:      displayName(s, p.A),
			result: res,
			b:      displayName(s, p.B),
		})
	}
	if round.Bye != nil {
		rows = append(rows, row{board: "n/a", a: displayName(s, *round.Bye),
			b: fmt.Sprintf("%s(%v)", internal.ByeDisplayName,
				internal.ScoreToString(ByePoints))})
	}
	for _, id := range round.Unpaired {
		rows = append(rows, row{board: "n/a", a: displayName(s, id), b: "-"})
	}

	// Compute column widths
	maxB, maxA, maxR, maxO := len("Board"), len("Player"), len("Result"), len("Opponent")
	for _, r := range rows {
		if l := len(r.board); l > maxB {
			maxB = l
		}
		if l := len([]rune(r.a)); l > maxA {
			maxA = l
		}
		if l := len([]rune(r.result)); l > maxR {
			maxR = l
		}
		if l := len([]rune(r.b)); l > maxO {
			maxO = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxB, "Board", maxA,
		"Player", maxR, "Result", maxO, "Opponent"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %s  %s  %s\n", maxB, r.board,
			padRight(r.a, maxA), padRight(r.result, maxR), padRight(r.b, maxO)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildStandingsOutput formats the current standings; competitors sharing a
// score share a place.
func BuildStandingsOutput(s *Session) string {
	ranking := s.Ranking()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Standings prior to Round %v:\n\n",
		s.NextRoundNumber()))

	type row struct{ rank, player, score string }
	var rows []row
	priorScore := -1.0
	for idx, c := range ranking {
		var rank string
		if idx != 0 && c.Score == priorScore {
			rank = ""
		} else {
			rank = fmt.Sprintf("%v.", idx+1)
			priorScore = c.Score
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("#%v", c.ID)
		}
		if c.ByePassed {
			name += " *"
		}
		rows = append(rows, row{
			rank:   rank,
			player: name,
			score:  fmt.Sprintf("%.1f", c.Score),
		})
	}

	maxP, maxN, maxS := len("Place"), len("Name"), len("Score")
	for _, r := range rows {
		if l := len(r.rank); l > maxP {
			maxP = l
		}
		if l := len([]rune(r.player)); l > maxN {
			maxN = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s\n", maxP, "Place", maxN,
		"Name", maxS, "Score"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %s  %-*s\n", maxP, r.rank,
			padRight(r.player, maxN), maxS, r.score))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildPlacementsOutput formats final placements with distinct positions.
func BuildPlacementsOutput(s *Session) string {
	var sb strings.Builder
	if err := s.Err(); err != nil {
		sb.WriteString(fmt.Sprintf("Final placements after %v rounds (%v):\n\n",
			len(s.Rounds()), err))
	} else {
		sb.WriteString(fmt.Sprintf("Placements after %v rounds:\n\n",
			len(s.Rounds())))
	}
	for _, p := range s.Placements() {
		name := p.Competitor.Name
		if name == "" {
			name = fmt.Sprintf("#%v", p.Competitor.ID)
		}
		sb.WriteString(fmt.Sprintf("%3d. %s %v\n", p.Position, name,
			internal.ScoreToString(p.Competitor.Score)))
	}

	return sb.String()
}

// padRight pads by rune count so names like "Beyoncé" and "½" stay aligned.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
