/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package entries

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mikeb26/swisstd/swiss"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads one competitor per row. A header row is optional; when
// present its id, name and score columns are used. Without a header the
// columns are positional:
//
//	name
//	id,name                  (first column numeric)
//	name,score               (second column numeric)
//	artist,song
//	id,name,score            (first and third columns numeric)
//	artist,album,song
//	track,artist,album,song
//
// Song lists are named "artist - song"; track numbers and albums are dropped.
// Comma, semicolon and tab separators are detected from the first line. Rows
// with an empty name are skipped.
func ParseCSV(r io.Reader) ([]swiss.Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("entries.csv: read failed: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	rdr := csv.NewReader(bytes.NewReader(data))
	rdr.Comma = detectSeparator(data)
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true
	rdr.TrimLeadingSpace = true

	var rows []row
	var cols *columns
	first := true
	for {
		rec, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("entries.csv: %w", err)
		}
		for i := range rec {
			rec[i] = strings.Trim(strings.TrimSpace(rec[i]), `"'`)
		}
		if first {
			first = false
			if c, ok := headerColumns(rec); ok {
				cols = c
				continue
			}
		}

		var rw row
		if cols != nil {
			rw, err = cols.extract(rec)
		} else {
			rw, err = positional(rec)
		}
		if err != nil {
			line, _ := rdr.FieldPos(0)
			return nil, fmt.Errorf("entries.csv: line %v: %w", line, err)
		}
		rows = append(rows, rw)
	}

	return toSeeds(rows)
}

func detectSeparator(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	semi := strings.Count(line, ";")
	switch {
	case semi > 0 && semi > strings.Count(line, ","):
		return ';'
	case strings.Contains(line, "\t"):
		return '\t'
	default:
		return ','
	}
}

func positional(rec []string) (row, error) {
	switch len(rec) {
	case 0:
		return row{}, nil
	case 1:
		return row{name: rec[0]}, nil
	case 2:
		if id, err := parseID(rec[0]); err == nil {
			return row{id: id, name: rec[1]}, nil
		}
		if score, err := parseScore(rec[1]); err == nil {
			return row{name: rec[0], score: score}, nil
		}
		return row{name: songName(rec[0], rec[1])}, nil
	default:
		if id, err := parseID(rec[0]); err == nil && isNumeric(rec[2]) {
			score, err := parseScore(rec[2])
			if err != nil {
				return row{}, err
			}
			return row{id: id, name: rec[1], score: score}, nil
		}
		if len(rec) == 3 {
			return row{name: songName(rec[0], rec[2])}, nil
		}
		return row{name: songName(rec[1], rec[3])}, nil
	}
}

func songName(artist string, song string) string {
	if artist == "" || song == "" {
		return song
	}
	return artist + " - " + song
}

func parseID(s string) (swiss.CompetitorID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("id must be positive (got %v)", v)
	}
	return swiss.CompetitorID(v), nil
}

func scoreText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "½", ".5")
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return s
}

// isNumeric reports whether s reads as a score, negative or not. An empty
// cell counts as a zero score.
func isNumeric(s string) bool {
	s = scoreText(s)
	if s == "" {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parseScore(s string) (float64, error) {
	s = scoreText(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad score %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("score must not be negative (got %v)", v)
	}
	return v, nil
}
