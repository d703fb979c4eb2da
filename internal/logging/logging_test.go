/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug", "json")
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = New("loud", "console")
	assert.Error(t, err)
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core)).With("session", "abc")

	l.Info("swiss.commit: applied round", "round", 3)
	l.Debug("swiss.pair: deferred", "id", 7)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "swiss.commit: applied round", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["session"])
	assert.EqualValues(t, 3, ctx["round"])
}
