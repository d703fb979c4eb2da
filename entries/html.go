/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package entries

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/swisstd/swiss"
)

// ParseHTML extracts competitors from an entries table. A table with id
// "members" (the usual club entries page) is preferred; otherwise the first
// table whose header row names a name column is used. Without recognizable
// headers column 0 is the id and column 1 the name.
func ParseHTML(r io.Reader) ([]swiss.Seed, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("entries.html: unable to parse document: %w", err)
	}
	return parseDoc(doc)
}

func parseDoc(doc *goquery.Document) ([]swiss.Seed, error) {
	table := doc.Find("table#members").First()
	if table.Length() == 0 {
		doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			if _, ok := headerColumns(headerCells(t)); ok {
				table = t
				return false
			}
			return true
		})
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("entries.html: no entries table found")
	}

	cols, ok := headerColumns(headerCells(table))
	if !ok {
		cols = &columns{id: 0, name: 1, score: -1, artist: -1}
	}

	var rows []row
	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, s *goquery.Selection) bool {
		cells := s.Find("td")
		if cells.Length() == 0 {
			// header row
			return true
		}
		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(c.Text()))
		})
		if cols.name >= len(texts) {
			return true
		}
		rw, err := cols.extract(texts)
		if err != nil {
			rowErr = fmt.Errorf("entries.html: row %v: %w", i+1, err)
			return false
		}
		rows = append(rows, rw)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return toSeeds(rows)
}

func headerCells(table *goquery.Selection) []string {
	var out []string
	table.Find("tr").First().Find("th").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
