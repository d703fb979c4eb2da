/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists session snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisstd/internal/config"
	"github.com/mikeb26/swisstd/internal/logging"
	"github.com/mikeb26/swisstd/s3blob"
	"github.com/mikeb26/swisstd/swiss"
)

var ErrNotFound = errors.New("store: session not found")

// Store saves and loads snapshots keyed by session id. Save replaces any
// earlier snapshot of the same session.
type Store interface {
	Save(ctx context.Context, snap *swiss.Snapshot) error
	Load(ctx context.Context, id string) (*swiss.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

var validIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

func checkID(id string) error {
	if !validIDRe.MatchString(id) {
		return fmt.Errorf("store: invalid session id %q", id)
	}
	return nil
}

// Open builds the backend selected in cfg.Store.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Store.Dir)
	case config.BackendS3:
		b, err := s3blob.New(ctx, cfg.Store.Bucket, cfg.Store.Prefix, cfg.Store.Gzip,
			log)
		if err != nil {
			return nil, err
		}
		return NewS3Store(b), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.Store.SQLitePath)
	}
	return nil, fmt.Errorf("store.open: unknown backend %q", cfg.Store.Backend)
}

const loadAllConcurrency = 8

// LoadAll loads the given sessions concurrently, preserving order.
func LoadAll(ctx context.Context, st Store, ids []string) ([]*swiss.Snapshot, error) {
	snaps := make([]*swiss.Snapshot, len(ids))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(loadAllConcurrency)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			snap, err := st.Load(egCtx, id)
			if err != nil {
				return fmt.Errorf("store.loadall: %v: %w", id, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return snaps, nil
}
