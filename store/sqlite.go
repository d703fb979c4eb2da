/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mikeb26/swisstd/swiss"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	current_round INTEGER NOT NULL,
	terminated TEXT,
	updated_at TEXT,
	state TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
	session_id TEXT NOT NULL,
	round_number INTEGER NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY (session_id, round_number),
	FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session_id);
`

// SQLiteStore keeps one sessions row per session (competitors, standings,
// ledger and policy as JSON) plus one rounds row per applied round.
type SQLiteStore struct {
	db *sql.DB
}

// sessionState is the part of a snapshot stored in sessions.state.
type sessionState struct {
	Competitors    []swiss.SnapshotCompetitor     `json:"competitors"`
	Standings      map[swiss.CompetitorID]float64 `json:"standings"`
	PairingHistory [][2]swiss.CompetitorID        `json:"pairingHistory"`
	Policy         *swiss.Config                  `json:"policy,omitempty"`
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store.sqlite: open %v: %w", path, err)
	}
	// a single connection keeps writes serialized and lets ":memory:" work
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.sqlite: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (st *SQLiteStore) Save(ctx context.Context, snap *swiss.Snapshot) error {
	if err := checkID(snap.SessionID); err != nil {
		return err
	}
	state, err := json.Marshal(sessionState{
		Competitors:    snap.Competitors,
		Standings:      snap.Standings,
		PairingHistory: snap.PairingHistory,
		Policy:         snap.Policy,
	})
	if err != nil {
		return fmt.Errorf("store.sqlite: marshal %v: %w", snap.SessionID, err)
	}

	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, current_round, terminated, updated_at, state)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_round = excluded.current_round,
			terminated = excluded.terminated,
			updated_at = excluded.updated_at,
			state = excluded.state`,
		snap.SessionID, snap.CurrentRound, snap.Terminated, snap.UpdatedAt,
		string(state))
	if err != nil {
		return fmt.Errorf("store.sqlite: save session %v: %w", snap.SessionID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE session_id = ?`,
		snap.SessionID); err != nil {
		return fmt.Errorf("store.sqlite: clear rounds %v: %w", snap.SessionID, err)
	}
	for _, r := range snap.RoundHistory {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("store.sqlite: marshal round %v: %w", r.Number, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rounds (session_id, round_number, data) VALUES (?, ?, ?)`,
			snap.SessionID, r.Number, string(data)); err != nil {
			return fmt.Errorf("store.sqlite: save round %v: %w", r.Number, err)
		}
	}

	return tx.Commit()
}

func (st *SQLiteStore) Load(ctx context.Context, id string) (*swiss.Snapshot, error) {
	snap := &swiss.Snapshot{SessionID: id}
	var terminated, updatedAt sql.NullString
	var state string
	err := st.db.QueryRowContext(ctx, `
		SELECT current_round, terminated, updated_at, state
		FROM sessions WHERE id = ?`, id).Scan(&snap.CurrentRound, &terminated,
		&updatedAt, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store.sqlite: load session %v: %w", id, err)
	}
	snap.Terminated = terminated.String
	snap.UpdatedAt = updatedAt.String

	var ss sessionState
	if err := json.Unmarshal([]byte(state), &ss); err != nil {
		return nil, fmt.Errorf("%w: session %v: %w", swiss.ErrCorruptSnapshot, id, err)
	}
	snap.Competitors = ss.Competitors
	snap.Standings = ss.Standings
	snap.PairingHistory = ss.PairingHistory
	snap.Policy = ss.Policy

	rows, err := st.db.QueryContext(ctx, `
		SELECT data FROM rounds WHERE session_id = ? ORDER BY round_number`, id)
	if err != nil {
		return nil, fmt.Errorf("store.sqlite: load rounds %v: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store.sqlite: scan round: %w", err)
		}
		var r swiss.Round
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("%w: session %v round: %w",
				swiss.ErrCorruptSnapshot, id, err)
		}
		snap.RoundHistory = append(snap.RoundHistory, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.sqlite: load rounds %v: %w", id, err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (st *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store.sqlite: list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store.sqlite: list: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (st *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE session_id = ?`,
		id); err != nil {
		return fmt.Errorf("store.sqlite: delete rounds %v: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store.sqlite: delete session %v: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	return tx.Commit()
}

func (st *SQLiteStore) Close() error {
	return st.db.Close()
}
