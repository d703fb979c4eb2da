/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"math"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ScoreToString renders a score the way crosstables do: whole points as
// integers and half points with a ½ suffix (e.g. "2½", "½").
func ScoreToString(score float64) string {
	whole := math.Floor(score)
	half := score-whole >= 0.5
	if !half {
		return strconv.Itoa(int(whole))
	}
	if whole == 0 {
		return "½"
	}
	return strconv.Itoa(int(whole)) + "½"
}
