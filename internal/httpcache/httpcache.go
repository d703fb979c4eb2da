/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/mikeb26/swisstd/internal/logging"
	"github.com/mikeb26/swisstd/s3blob"
)

// NewCachedHttpClient returns an http.Client that caches responses in the
// given S3 bucket for maxAge regardless of what the origin asks for. An
// empty bucket selects an in-memory cache; if the bucket cannot be reached
// the client falls back to uncached http.
func NewCachedHttpClient(ctx context.Context, bucket string, maxAge time.Duration,
	log logging.Logger) *http.Client {

	if log == nil {
		log = logging.Nop()
	}

	var cache httpcache.Cache
	if bucket == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		b, err := s3blob.New(ctx, bucket, "", false, log)
		if err != nil {
			log.Warn("httpcache.new: failed to init S3 cache; falling back to uncached http",
				"bucket", bucket, "error", err)
			return http.DefaultClient
		}
		cache = b.HTTPCache(ctx)
	}

	return &http.Client{Transport: newTransport(cache, http.DefaultTransport, maxAge)}
}

func newTransport(cache httpcache.Cache, base http.RoundTripper,
	maxAge time.Duration) *httpcache.Transport {

	hc := httpcache.NewTransport(cache)
	// override origin headers that would otherwise keep responses out of
	// the cache
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: base,
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control",
				fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}
	return hc
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so the caller's request is left alone
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
