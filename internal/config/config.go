/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikeb26/swisstd/internal"
	"github.com/mikeb26/swisstd/swiss"
)

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Engine struct {
	MaxRounds               int    `yaml:"maxRounds"`
	ByePolicy               string `yaml:"byePolicy"`
	FirstRound              string `yaml:"firstRound"`
	RandomSeed              int64  `yaml:"randomSeed"`
	StopWhenGroupsExhausted bool   `yaml:"stopWhenGroupsExhausted"`
}

type Store struct {
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	Bucket     string `yaml:"bucket"`
	Prefix     string `yaml:"prefix"`
	Gzip       bool   `yaml:"gzip"`
	SQLitePath string `yaml:"sqlitePath"`
}

type HTTP struct {
	CacheBucket string `yaml:"cacheBucket"`
	CacheTTL    string `yaml:"cacheTTL"`
}

// Config is the swisstd tool configuration.
type Config struct {
	Log    Log    `yaml:"log"`
	Engine Engine `yaml:"engine"`
	Store  Store  `yaml:"store"`
	HTTP   HTTP   `yaml:"http"`
}

const (
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendSQLite = "sqlite"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info", Format: "console"},
		Engine: Engine{
			ByePolicy:  swiss.ByePolicyLowest.String(),
			FirstRound: swiss.FirstRoundSequential.String(),
			RandomSeed: 1,
		},
		Store: Store{
			Backend:    BackendFile,
			Dir:        "./sessions",
			Prefix:     "swisstd",
			Gzip:       true,
			SQLitePath: "./swisstd.db",
		},
		HTTP: HTTP{CacheTTL: internal.DefaultCacheTTL},
	}
}

// Load reads a YAML config file on top of Default(). An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.load: unable to read %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config.load: unable to parse %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.load: %v: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Engine.MaxRounds < 0 {
		return fmt.Errorf("engine.maxRounds must be >= 0 (got %v)",
			c.Engine.MaxRounds)
	}
	if _, err := swiss.ParseByePolicy(c.Engine.ByePolicy); err != nil {
		return fmt.Errorf("engine.byePolicy: %w", err)
	}
	if _, err := swiss.ParseFirstRoundMethod(c.Engine.FirstRound); err != nil {
		return fmt.Errorf("engine.firstRound: %w", err)
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the file backend")
		}
	case BackendS3:
		if c.Store.Bucket == "" {
			return fmt.Errorf("store.bucket is required for the s3 backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlitePath is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend %q unknown", c.Store.Backend)
	}

	if _, err := c.CacheTTL(); err != nil {
		return fmt.Errorf("http.cacheTTL: %w", err)
	}

	return nil
}

// SwissConfig converts the engine section into the engine's own config.
// Validate must have succeeded.
func (c *Config) SwissConfig() swiss.Config {
	byePolicy, _ := swiss.ParseByePolicy(c.Engine.ByePolicy)
	firstRound, _ := swiss.ParseFirstRoundMethod(c.Engine.FirstRound)

	return swiss.Config{
		MaxRounds:               c.Engine.MaxRounds,
		ByePolicy:               byePolicy,
		FirstRound:              firstRound,
		RandomSeed:              c.Engine.RandomSeed,
		StopWhenGroupsExhausted: c.Engine.StopWhenGroupsExhausted,
	}
}

func (c *Config) CacheTTL() (time.Duration, error) {
	if c.HTTP.CacheTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.HTTP.CacheTTL)
}
