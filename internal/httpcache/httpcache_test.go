/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedClientOverridesNoCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		atomic.AddInt32(&hits, 1)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		w.Write([]byte("Alice\nBob\n"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: newTransport(httpcache.NewMemoryCache(),
		http.DefaultTransport, 5*time.Minute)}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/entries.csv")
		require.NoError(t, err)
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, "Alice\nBob\n", string(data))
		if i > 0 {
			assert.Equal(t, "1", resp.Header.Get("X-From-Cache"), "object not cached")
		}
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNewCachedHttpClientMemory(t *testing.T) {
	client := NewCachedHttpClient(context.Background(), "", time.Minute, nil)
	assert.NotSame(t, http.DefaultClient, client)
	_, ok := client.Transport.(*httpcache.Transport)
	assert.True(t, ok)
}

func TestHeaderOverrideRequestHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		w.Write([]byte(r.Header.Get("X-Swisstd")))
	}))
	defer srv.Close()

	rt := &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			req.Header.Set("X-Swisstd", "hooked")
		},
	}
	req, err := http.NewRequest("GET", srv.URL, nil)
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "hooked", string(data))
	assert.Empty(t, req.Header.Get("X-Swisstd"), "caller's request untouched")
}
