/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mikeb26/swisstd/internal"
)

const (
	terminalNoLegalPairing = "no-legal-pairing"
	terminalRoundCap       = "round-cap"
)

// SnapshotCompetitor carries the immutable part of a competitor plus the
// bye flag; scores live in Snapshot.Standings.
type SnapshotCompetitor struct {
	ID            CompetitorID `json:"id"`
	Name          string       `json:"name,omitempty"`
	OriginalOrder int          `json:"originalOrder"`
	ByePassed     bool         `json:"byePassed,omitempty"`
}

// Snapshot is the persisted state of a session at a round boundary. A round
// that was issued but not applied is not part of the snapshot; after restore
// it is simply generated again.
type Snapshot struct {
	SessionID      string                   `json:"sessionId"`
	Competitors    []SnapshotCompetitor     `json:"competitors"`
	Standings      map[CompetitorID]float64 `json:"standings"`
	PairingHistory [][2]CompetitorID        `json:"pairingHistory"`
	RoundHistory   []Round                  `json:"roundHistory"`
	CurrentRound   int                      `json:"currentRound"`
	Terminated     string                   `json:"terminated,omitempty"`
	UpdatedAt      string                   `json:"updatedAt,omitempty"`
	// Policy is the engine policy in effect when the snapshot was taken.
	Policy *Config `json:"policy,omitempty"`
}

// Snapshot captures the session as of its last applied round.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		SessionID:      s.id,
		Competitors:    make([]SnapshotCompetitor, 0, s.standings.Len()),
		Standings:      make(map[CompetitorID]float64, s.standings.Len()),
		PairingHistory: make([][2]CompetitorID, 0, s.ledger.Len()),
		RoundHistory:   make([]Round, 0, len(s.rounds)),
		CurrentRound:   len(s.rounds) + 1,
		UpdatedAt:      s.now().UTC().Format(time.RFC3339),
	}
	policy := s.cfg
	snap.Policy = &policy
	for _, c := range s.standings.competitors {
		snap.Competitors = append(snap.Competitors, SnapshotCompetitor{
			ID:            c.ID,
			Name:          c.Name,
			OriginalOrder: c.OriginalOrder,
			ByePassed:     c.ByePassed,
		})
		snap.Standings[c.ID] = c.Score
	}
	for _, k := range s.ledger.Pairs() {
		snap.PairingHistory = append(snap.PairingHistory, [2]CompetitorID{k.Lo, k.Hi})
	}
	for _, r := range s.rounds {
		snap.RoundHistory = append(snap.RoundHistory, r.clone())
	}
	switch {
	case errors.Is(s.terminalErr, ErrNoLegalPairing):
		snap.Terminated = terminalNoLegalPairing
	case errors.Is(s.terminalErr, ErrRoundCapExceeded):
		snap.Terminated = terminalRoundCap
	}

	return snap
}

// UpdatedTime parses UpdatedAt; an absent stamp yields the zero time.
func (snap *Snapshot) UpdatedTime() (time.Time, error) {
	return internal.ParseDateOrZero(snap.UpdatedAt)
}

func corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

// Validate checks the snapshot's structure. Every failure wraps
// ErrCorruptSnapshot; nothing is repaired.
func (snap *Snapshot) Validate() error {
	if snap.SessionID == "" {
		return corrupt("missing session id")
	}

	known := make(map[CompetitorID]bool, len(snap.Competitors))
	for _, c := range snap.Competitors {
		if known[c.ID] {
			return corrupt("duplicate competitor id %v", c.ID)
		}
		known[c.ID] = true

		score, ok := snap.Standings[c.ID]
		if !ok {
			return corrupt("no standing for competitor %v", c.ID)
		}
		if score < 0 {
			return corrupt("negative score %v for competitor %v", score, c.ID)
		}
	}
	if len(snap.Standings) != len(snap.Competitors) {
		for id := range snap.Standings {
			if !known[id] {
				return corrupt("standing for unknown competitor %v", id)
			}
		}
	}

	history := make(map[PairKey]bool, len(snap.PairingHistory))
	for _, p := range snap.PairingHistory {
		if !known[p[0]] || !known[p[1]] {
			return corrupt("pairing history references unknown competitor in %v", p)
		}
		if p[0] == p[1] {
			return corrupt("pairing history has self pair %v", p)
		}
		key := MakePairKey(p[0], p[1])
		if history[key] {
			return corrupt("pairing history repeats %v", p)
		}
		history[key] = true
	}

	for i, r := range snap.RoundHistory {
		if r.Number != i+1 {
			return corrupt("round %v recorded at position %v", r.Number, i+1)
		}
		for _, p := range r.Pairings {
			if !known[p.A] || !known[p.B] {
				return corrupt("round %v pairs unknown competitor", r.Number)
			}
			if !history[p.Key()] {
				return corrupt("round %v pairing %v-%v missing from history",
					r.Number, p.A, p.B)
			}
		}
		if r.Bye != nil && !known[*r.Bye] {
			return corrupt("round %v bye to unknown competitor %v", r.Number, *r.Bye)
		}
	}
	if snap.CurrentRound != len(snap.RoundHistory)+1 {
		return corrupt("current round %v after %v recorded rounds",
			snap.CurrentRound, len(snap.RoundHistory))
	}

	switch snap.Terminated {
	case "", terminalNoLegalPairing, terminalRoundCap:
	default:
		return corrupt("unknown terminal state %q", snap.Terminated)
	}

	if p := snap.Policy; p != nil {
		if p.MaxRounds < 0 {
			return corrupt("negative round cap %v", p.MaxRounds)
		}
		if p.ByePolicy.String() == "?" || p.FirstRound.String() == "?" {
			return corrupt("unknown policy %+v", *p)
		}
	}

	if _, err := snap.UpdatedTime(); err != nil {
		return corrupt("bad updatedAt %q: %v", snap.UpdatedAt, err)
	}

	return nil
}

// Restore rebuilds a session from a snapshot. The policy stored in the
// snapshot wins over cfg, which only applies to snapshots that carry none, so
// the restored session produces the same next round as the session the
// snapshot was taken from.
func Restore(snap *Snapshot, cfg Config, opts ...Option) (*Session, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if snap.Policy != nil {
		cfg = *snap.Policy
	}

	seeds := make([]Seed, 0, len(snap.Competitors))
	for _, c := range snap.Competitors {
		seeds = append(seeds, Seed{
			ID:           c.ID,
			Name:         c.Name,
			DisplayOrder: c.OriginalOrder,
			InitialScore: snap.Standings[c.ID],
		})
	}
	standings, err := NewStandings(seeds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	for _, c := range snap.Competitors {
		if c.ByePassed {
			standings.competitors[standings.index[c.ID]].ByePassed = true
		}
	}

	ledger := NewLedger()
	for _, p := range snap.PairingHistory {
		if err := ledger.Record(p[0], p[1]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	}

	rounds := make([]Round, 0, len(snap.RoundHistory))
	for _, r := range snap.RoundHistory {
		rounds = append(rounds, r.clone())
	}

	s := newSession(snap.SessionID, standings, ledger, rounds, cfg, opts)
	switch snap.Terminated {
	case terminalNoLegalPairing:
		s.terminate(ErrNoLegalPairing)
	case terminalRoundCap:
		s.terminate(ErrRoundCapExceeded)
	}

	return s, nil
}

func (snap *Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// UnmarshalSnapshot decodes and validates a snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}
