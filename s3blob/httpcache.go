/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package s3blob

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"path"

	"github.com/gregjones/httpcache"
)

const httpCacheDir = "httpcache"

// HTTPCache adapts a Bucket to httpcache.Cache. The interface has no error
// returns, so failures are logged and reported as cache misses.
type HTTPCache struct {
	bucket *Bucket
	ctx    context.Context
}

var _ httpcache.Cache = (*HTTPCache)(nil)

// HTTPCache returns a cache whose requests are issued with ctx.
func (b *Bucket) HTTPCache(ctx context.Context) *HTTPCache {
	return &HTTPCache{bucket: b, ctx: ctx}
}

func cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	return path.Join(httpCacheDir, hex.EncodeToString(h.Sum(nil)))
}

func (c *HTTPCache) Get(key string) ([]byte, bool) {
	data, err := c.bucket.Get(c.ctx, cacheKeyToObjectKey(key))
	if err != nil {
		// not found just indicates a cache miss
		if !errors.Is(err, ErrNotFound) {
			c.bucket.log.Warn("s3blob.httpcache: get failed", "error", err)
		}
		return []byte{}, false
	}
	return data, true
}

func (c *HTTPCache) Set(key string, data []byte) {
	if err := c.bucket.Put(c.ctx, cacheKeyToObjectKey(key), data); err != nil {
		c.bucket.log.Warn("s3blob.httpcache: set failed", "error", err)
	}
}

func (c *HTTPCache) Delete(key string) {
	if err := c.bucket.Delete(c.ctx, cacheKeyToObjectKey(key)); err != nil {
		c.bucket.log.Warn("s3blob.httpcache: delete failed", "error", err)
	}
}
