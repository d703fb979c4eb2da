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

func TestLedgerRecord(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Record(3, 1))

	assert.True(t, l.HasPlayed(1, 3))
	assert.True(t, l.HasPlayed(3, 1))
	assert.False(t, l.HasPlayed(1, 2))
	assert.Equal(t, 1, l.Len())

	assert.Error(t, l.Record(1, 3), "pair is unordered")
	assert.Error(t, l.Record(2, 2), "self pair")
	assert.Equal(t, 1, l.Len())
}

func TestLedgerPairsSorted(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Record(5, 2))
	require.NoError(t, l.Record(1, 4))
	require.NoError(t, l.Record(2, 1))

	assert.Equal(t, []PairKey{{1, 2}, {1, 4}, {2, 5}}, l.Pairs())
}

func TestLedgerClone(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Record(1, 2))
	c := l.Clone()
	require.NoError(t, c.Record(3, 4))

	assert.False(t, l.HasPlayed(3, 4))
	assert.True(t, c.HasPlayed(1, 2))
}
