/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package entries

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mikeb26/swisstd/internal"
	"github.com/mikeb26/swisstd/swiss"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatHTML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "?"
	}
}

// DetectFormat picks a format from a content type, falling back to the file
// extension of name. CSV is assumed when neither is conclusive.
func DetectFormat(name string, contentType string) Format {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "text/html", "application/xhtml+xml":
			return FormatHTML
		case "application/json":
			return FormatJSON
		case "text/csv", "text/tab-separated-values":
			return FormatCSV
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	}
	return FormatCSV
}

func Parse(f Format, r io.Reader) ([]swiss.Seed, error) {
	switch f {
	case FormatCSV:
		return ParseCSV(r)
	case FormatHTML:
		return ParseHTML(r)
	case FormatJSON:
		return ParseJSON(r)
	}
	return nil, fmt.Errorf("entries: unknown format %v", f)
}

// Fetch downloads an entry list and parses it according to its content
// type. client may be a caching client from internal/httpcache; nil means
// http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) ([]swiss.Seed, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entries.fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entries.fetch: status %d fetching %s", resp.StatusCode,
			url)
	}

	f := DetectFormat(path.Base(req.URL.Path), resp.Header.Get("Content-Type"))
	return Parse(f, resp.Body)
}

// Load reads entries from a local file or, for http(s) sources, via Fetch.
func Load(ctx context.Context, client *http.Client, src string) ([]swiss.Seed, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return Fetch(ctx, client, src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("entries.load: %w", err)
	}
	defer f.Close()

	return Parse(DetectFormat(src, ""), f)
}
