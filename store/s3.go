/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mikeb26/swisstd/s3blob"
	"github.com/mikeb26/swisstd/swiss"
)

const s3SessionDir = "sessions"

// S3Store keeps one JSON snapshot object per session under
// <prefix>/sessions/ in an S3 bucket.
type S3Store struct {
	bucket *s3blob.Bucket
}

func NewS3Store(b *s3blob.Bucket) *S3Store {
	return &S3Store{bucket: b}
}

func s3Key(id string) string {
	return path.Join(s3SessionDir, id+snapshotExt)
}

func (st *S3Store) Save(ctx context.Context, snap *swiss.Snapshot) error {
	if err := checkID(snap.SessionID); err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("store.s3: marshal %v: %w", snap.SessionID, err)
	}
	return st.bucket.Put(ctx, s3Key(snap.SessionID), data)
}

func (st *S3Store) Load(ctx context.Context, id string) (*swiss.Snapshot, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := st.bucket.Get(ctx, s3Key(id))
	if errors.Is(err, s3blob.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return swiss.UnmarshalSnapshot(data)
}

func (st *S3Store) List(ctx context.Context) ([]string, error) {
	keys, err := st.bucket.List(ctx, s3SessionDir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, k := range keys {
		name := strings.TrimPrefix(k, s3SessionDir+"/")
		if !strings.HasSuffix(name, snapshotExt) || strings.Contains(name, "/") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, snapshotExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the snapshot. S3 deletes are idempotent, so deleting an
// unknown id is not reported.
func (st *S3Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return st.bucket.Delete(ctx, s3Key(id))
}

func (st *S3Store) Close() error {
	return nil
}
