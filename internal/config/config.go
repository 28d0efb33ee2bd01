// Package config holds the runtime configuration for the sweeper daemon.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values for every tunable.
const (
	DefaultDBPath        = "sweeper.db"
	DefaultAttrName      = "user.expire_at"
	DefaultSweepInterval = time.Second
	DefaultPollTimeout   = 200 * time.Millisecond
)

// Config holds the validated runtime configuration.
type Config struct {
	// DBPath is the SQLite database holding expiration records.
	DBPath string
	// AttrName is the reserved attribute name that schedules an expiration,
	// namespace included (e.g. "user.expire_at").
	AttrName string
	// SweepInterval is how often the sweeper checks for due records.
	SweepInterval time.Duration
	// PollTimeout bounds each wait on the event channel.
	PollTimeout time.Duration
	// Verbose enables debug logging.
	Verbose bool
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		DBPath:        DefaultDBPath,
		AttrName:      DefaultAttrName,
		SweepInterval: DefaultSweepInterval,
		PollTimeout:   DefaultPollTimeout,
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}

	// xattr names are namespace-qualified ("user.", "trusted.", ...).
	if !strings.Contains(c.AttrName, ".") || strings.HasPrefix(c.AttrName, ".") {
		return fmt.Errorf("attribute name %q must be namespace-qualified, e.g. user.expire_at", c.AttrName)
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}

	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll timeout must be positive, got %s", c.PollTimeout)
	}

	return nil
}
