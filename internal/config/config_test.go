/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/swisstd/swiss"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swisstd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)

	sc := cfg.SwissConfig()
	assert.Equal(t, swiss.ByePolicyLowest, sc.ByePolicy)
	assert.Equal(t, swiss.FirstRoundSequential, sc.FirstRound)
	assert.Equal(t, 0, sc.MaxRounds)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
engine:
  maxRounds: 12
  byePolicy: avoid-repeat
  firstRound: split-half
  stopWhenGroupsExhausted: true
store:
  backend: sqlite
  sqlitePath: /tmp/x.db
http:
  cacheTTL: 90m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	sc := cfg.SwissConfig()
	assert.Equal(t, 12, sc.MaxRounds)
	assert.Equal(t, swiss.ByePolicyAvoidRepeat, sc.ByePolicy)
	assert.Equal(t, swiss.FirstRoundSplitHalf, sc.FirstRound)
	assert.True(t, sc.StopWhenGroupsExhausted)
	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, ttl)
}

func TestLoadInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"negative cap", "engine:\n  maxRounds: -1\n"},
		{"bad bye policy", "engine:\n  byePolicy: top\n"},
		{"bad first round", "engine:\n  firstRound: zigzag\n"},
		{"unknown backend", "store:\n  backend: etcd\n"},
		{"s3 without bucket", "store:\n  backend: s3\n"},
		{"bad ttl", "http:\n  cacheTTL: soon\n"},
		{"not yaml", "engine: [\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.body))
			assert.Error(t, err)
		})
	}
}
