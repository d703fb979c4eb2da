/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisstd/swiss"
)

// simulate creates the given number of sessions in reg and plays each to
// termination with random outcomes, concurrently. Each session draws from
// its own generator seeded from seed so results are reproducible.
func simulate(ctx context.Context, reg *swiss.Registry, players int, sessions int,
	seed int64) ([]*swiss.Session, error) {

	seeds := make([]swiss.Seed, 0, players)
	for i := 1; i <= players; i++ {
		seeds = append(seeds, swiss.Seed{
			ID:           swiss.CompetitorID(i),
			Name:         fmt.Sprintf("P%02d", i),
			DisplayOrder: i,
		})
	}

	out := make([]*swiss.Session, sessions)
	for i := range out {
		s, err := reg.Create(seeds)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i, s := range out {
		i, s := i, s
		eg.Go(func() error {
			return playOut(egCtx, s, rand.New(rand.NewSource(seed+int64(i))))
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func playOut(ctx context.Context, s *swiss.Session, rng *rand.Rand) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		round, err := s.NextRound()
		if errors.Is(err, swiss.ErrNoLegalPairing) ||
			errors.Is(err, swiss.ErrRoundCapExceeded) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("simulate: session %v: %w", s.ID(), err)
		}

		results := make([]swiss.MatchResult, 0, len(round.Pairings))
		for _, p := range round.Pairings {
			results = append(results, swiss.MatchResult{
				A:       p.A,
				B:       p.B,
				Outcome: swiss.Outcome(rng.Intn(3)),
			})
		}
		if err := s.SubmitResults(results); err != nil {
			return fmt.Errorf("simulate: session %v round %v: %w", s.ID(),
				round.Number, err)
		}
	}
}
