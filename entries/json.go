/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package entries

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mikeb26/swisstd/swiss"
)

type jsonEntry struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ParseJSON reads either a list of names or a list of objects with name
// and optional id and score fields.
func ParseJSON(r io.Reader) ([]swiss.Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("entries.json: read failed: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		rows := make([]row, 0, len(names))
		for _, n := range names {
			rows = append(rows, row{name: n})
		}
		return toSeeds(rows)
	}

	var list []jsonEntry
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("entries.json: %w", err)
	}
	rows := make([]row, 0, len(list))
	for _, e := range list {
		if e.ID < 0 {
			return nil, fmt.Errorf("entries.json: id must be positive (got %v)", e.ID)
		}
		if e.Score < 0 {
			return nil, fmt.Errorf("entries.json: score must not be negative (got %v)",
				e.Score)
		}
		rows = append(rows, row{id: swiss.CompetitorID(e.ID), name: e.Name,
			score: e.Score})
	}
	return toSeeds(rows)
}
