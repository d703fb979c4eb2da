/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mikeb26/swisstd/swiss"
)

const snapshotExt = ".json"

// FileStore keeps one JSON snapshot per session in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store.file: unable to create %v: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (fst *FileStore) path(id string) string {
	return filepath.Join(fst.dir, id+snapshotExt)
}

func (fst *FileStore) Save(_ context.Context, snap *swiss.Snapshot) error {
	if err := checkID(snap.SessionID); err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("store.file: marshal %v: %w", snap.SessionID, err)
	}

	// write then rename so a crash never leaves a torn snapshot
	tmp, err := os.CreateTemp(fst.dir, snap.SessionID+".*.tmp")
	if err != nil {
		return fmt.Errorf("store.file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store.file: write %v: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.file: close %v: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), fst.path(snap.SessionID)); err != nil {
		return fmt.Errorf("store.file: %w", err)
	}

	return nil
}

func (fst *FileStore) Load(_ context.Context, id string) (*swiss.Snapshot, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fst.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store.file: %w", err)
	}
	return swiss.UnmarshalSnapshot(data)
}

func (fst *FileStore) List(_ context.Context) ([]string, error) {
	ents, err := os.ReadDir(fst.dir)
	if err != nil {
		return nil, fmt.Errorf("store.file: %w", err)
	}
	var ids []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, snapshotExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (fst *FileStore) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(fst.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return err
}

func (fst *FileStore) Close() error {
	return nil
}
