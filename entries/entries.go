/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package entries

import (
	"fmt"
	"strings"

	"github.com/mikeb26/swisstd/swiss"
)

// row is one parsed entry before ids are assigned. A zero id means the
// source did not carry one.
type row struct {
	id    swiss.CompetitorID
	name  string
	score float64
}

// columns maps header names to record positions; -1 means absent.
type columns struct {
	id     int
	name   int
	score  int
	artist int
}

// Song lists carry Turkish or English headers such as
// "Numara,Sanatçı,Albüm,Öğe"; track number and album columns are ignored.
var (
	idHeaders     = []string{"id", "#", "no", "no.", "num", "number", "pairing #"}
	nameHeaders   = []string{"name", "player", "competitor", "item", "song", "title", "öğe", "şarkı"}
	scoreHeaders  = []string{"score", "points", "pts", "total"}
	artistHeaders = []string{"artist", "sanatçı"}
)

func headerColumns(cells []string) (*columns, bool) {
	c := &columns{id: -1, name: -1, score: -1, artist: -1}
	for i, cell := range cells {
		h := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case c.id < 0 && contains(idHeaders, h):
			c.id = i
		case c.name < 0 && contains(nameHeaders, h):
			c.name = i
		case c.score < 0 && contains(scoreHeaders, h):
			c.score = i
		case c.artist < 0 && contains(artistHeaders, h):
			c.artist = i
		}
	}
	if c.name < 0 {
		return nil, false
	}
	return c, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *columns) extract(cells []string) (row, error) {
	var r row
	if c.name < len(cells) {
		r.name = cells[c.name]
	}
	if c.artist >= 0 && c.artist < len(cells) {
		r.name = songName(cells[c.artist], r.name)
	}
	if c.id >= 0 && c.id < len(cells) && strings.TrimSpace(cells[c.id]) != "" {
		id, err := parseID(cells[c.id])
		if err != nil {
			return row{}, err
		}
		r.id = id
	}
	if c.score >= 0 && c.score < len(cells) {
		score, err := parseScore(cells[c.score])
		if err != nil {
			return row{}, err
		}
		r.score = score
	}
	return r, nil
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// toSeeds drops nameless rows and assigns display order by position. Rows
// without an id get their 1-based position as id; mixing explicit and
// implied ids is rejected.
func toSeeds(rows []row) ([]swiss.Seed, error) {
	seeds := make([]swiss.Seed, 0, len(rows))
	withID := 0
	for _, r := range rows {
		name := normalizeName(r.name)
		if name == "" {
			continue
		}
		if r.id != 0 {
			withID++
		}
		seeds = append(seeds, swiss.Seed{
			ID:           r.id,
			Name:         name,
			DisplayOrder: len(seeds) + 1,
			InitialScore: r.score,
		})
	}

	if withID != 0 && withID != len(seeds) {
		return nil, fmt.Errorf("entries: %v of %v entries carry an id",
			withID, len(seeds))
	}
	seen := make(map[swiss.CompetitorID]bool, len(seeds))
	for i := range seeds {
		if withID == 0 {
			seeds[i].ID = swiss.CompetitorID(i + 1)
		}
		if seen[seeds[i].ID] {
			return nil, fmt.Errorf("%w: id %v", swiss.ErrDuplicateCompetitor,
				seeds[i].ID)
		}
		seen[seeds[i].ID] = true
	}

	return seeds, nil
}
