/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignByeEven(t *testing.T) {
	ranking := []Competitor{{ID: 1}, {ID: 2}}
	rest, bye := AssignBye(ranking, ByePolicyLowest)
	assert.Nil(t, bye)
	assert.Equal(t, ranking, rest)
}

func TestAssignByeLowest(t *testing.T) {
	ranking := []Competitor{
		{ID: 1, Score: 2},
		{ID: 2, Score: 1},
		{ID: 3, Score: 0, ByePassed: true},
	}
	rest, bye := AssignBye(ranking, ByePolicyLowest)
	require.NotNil(t, bye)
	assert.Equal(t, CompetitorID(3), bye.ID, "repeat byes are allowed")
	assert.Equal(t, []CompetitorID{1, 2}, ids(rest))
	assert.Len(t, ranking, 3, "input is not modified")
}

func TestAssignByeAvoidRepeat(t *testing.T) {
	ranking := []Competitor{
		{ID: 1, Score: 2},
		{ID: 2, Score: 1},
		{ID: 3, Score: 1, ByePassed: true},
	}
	rest, bye := AssignBye(ranking, ByePolicyAvoidRepeat)
	require.NotNil(t, bye)
	assert.Equal(t, CompetitorID(2), bye.ID)
	assert.Equal(t, []CompetitorID{1, 3}, ids(rest))

	for i := range ranking {
		ranking[i].ByePassed = true
	}
	_, bye = AssignBye(ranking, ByePolicyAvoidRepeat)
	require.NotNil(t, bye)
	assert.Equal(t, CompetitorID(3), bye.ID, "falls back to lowest ranked")
}

func TestParseByePolicy(t *testing.T) {
	for _, p := range []ByePolicy{ByePolicyLowest, ByePolicyAvoidRepeat} {
		got, err := ParseByePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseByePolicy("highest")
	assert.Error(t, err)
}
