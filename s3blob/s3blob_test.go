/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/gregjones/httpcache/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBucket returns a Bucket on $SWISSTD_TEST_BUCKET or skips.
func testBucket(t *testing.T, gzipData bool) *Bucket {
	name := os.Getenv("SWISSTD_TEST_BUCKET")
	if name == "" {
		t.Skip("Skipping test; SWISSTD_TEST_BUCKET is not set")
	}
	b, err := New(context.Background(), name, "swisstd-test", gzipData, nil)
	if err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v", name, err)
	}
	return b
}

func TestHTTPCache(t *testing.T) {
	test.Cache(t, testBucket(t, false).HTTPCache(context.Background()))
}

func TestHTTPCacheWithGzip(t *testing.T) {
	test.Cache(t, testBucket(t, true).HTTPCache(context.Background()))
}

func TestBucketRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := testBucket(t, true)

	require.NoError(t, b.Put(ctx, "sessions/roundtrip", []byte("hello")))
	data, err := b.Get(ctx, "sessions/roundtrip")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	keys, err := b.List(ctx, "sessions")
	require.NoError(t, err)
	assert.Contains(t, keys, "sessions/roundtrip")

	require.NoError(t, b.Delete(ctx, "sessions/roundtrip"))
	_, err = b.Get(ctx, "sessions/roundtrip")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestObjectKeys(t *testing.T) {
	cases := []struct {
		prefix string
		gzip   bool
		key    string
		want   string
	}{
		{"swisstd", false, "sessions/abc", "swisstd/sessions/abc"},
		{"swisstd", true, "sessions/abc", "swisstd/sessions/abc.gz"},
		{"", false, "sessions/abc", "sessions/abc"},
	}
	for _, c := range cases {
		b := &Bucket{prefix: c.prefix, gzip: c.gzip}
		got := b.objectKey(c.key)
		assert.Equal(t, c.want, got)
		assert.Equal(t, c.key, b.trimKey(got))
	}

	k1 := cacheKeyToObjectKey("https://example.com/a")
	assert.Equal(t, k1, cacheKeyToObjectKey("https://example.com/a"))
	assert.NotEqual(t, k1, cacheKeyToObjectKey("https://example.com/b"))
	assert.Regexp(t, `^httpcache/[0-9a-f]{32}$`, k1)
}

func TestGzipBytes(t *testing.T) {
	in := bytes.Repeat([]byte("swiss "), 100)
	out, err := gzipBytes(in)
	require.NoError(t, err)
	assert.Less(t, len(out), len(in))

	gr, err := gzip.NewReader(bytes.NewReader(out))
	require.NoError(t, err)
	back, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestIsNoSuchKey(t *testing.T) {
	assert.True(t, isNoSuchKey(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isNoSuchKey(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNoSuchKey(errors.New("boom")))
}
