/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mikeb26/swisstd/internal"
	"github.com/mikeb26/swisstd/swiss"
)

// parseResults parses "a:b=outcome" items separated by commas, e.g.
// "1:2=1-0,3:4=draw". An empty string is a round with only a bye.
func parseResults(s string) ([]swiss.MatchResult, error) {
	var out []swiss.MatchResult
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		pair, outcomeStr, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("%q: expected a:b=outcome", item)
		}
		aStr, bStr, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%q: expected a:b=outcome", item)
		}
		a, err := strconv.ParseInt(strings.TrimSpace(aStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: bad id %q", item, aStr)
		}
		b, err := strconv.ParseInt(strings.TrimSpace(bStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: bad id %q", item, bStr)
		}
		outcome, err := swiss.ParseOutcome(outcomeStr)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", item, err)
		}
		out = append(out, swiss.MatchResult{
			A:       swiss.CompetitorID(a),
			B:       swiss.CompetitorID(b),
			Outcome: outcome,
		})
	}

	return out, nil
}

func buildListOutput(snaps []*swiss.Snapshot) string {
	type row struct{ id, round, players, status, updated string }
	rows := make([]row, 0, len(snaps))
	for _, snap := range snaps {
		status := "active"
		if snap.Terminated != "" {
			status = snap.Terminated
		}
		updated := ""
		if t, err := snap.UpdatedTime(); err == nil && !t.IsZero() {
			updated = t.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, row{
			id:      snap.SessionID,
			round:   strconv.Itoa(snap.CurrentRound),
			players: strconv.Itoa(len(snap.Competitors)),
			status:  status,
			updated: updated,
		})
	}

	maxI, maxR, maxP, maxS := len("Session"), len("Next"), len("Players"), len("Status")
	for _, r := range rows {
		if l := len(r.id); l > maxI {
			maxI = l
		}
		if l := len(r.round); l > maxR {
			maxR = l
		}
		if l := len(r.players); l > maxP {
			maxP = l
		}
		if l := len(r.status); l > maxS {
			maxS = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxI, "Session", maxR,
		"Next", maxP, "Players", maxS, "Status", "Updated"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s\n", maxI, r.id, maxR,
			r.round, maxP, r.players, maxS, r.status, r.updated))
	}

	return sb.String()
}

// leader names the top placement for simulate summaries.
func leader(s *swiss.Session) string {
	p := s.Placements()
	if len(p) == 0 {
		return "-"
	}
	return fmt.Sprintf("%v (%v)", p[0].Competitor.Name,
		internal.ScoreToString(p[0].Competitor.Score))
}
