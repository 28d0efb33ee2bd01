package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sweeper.db", cfg.DBPath)
	assert.Equal(t, "user.expire_at", cfg.AttrName)
	assert.Equal(t, time.Second, cfg.SweepInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.PollTimeout)
	assert.False(t, cfg.Verbose)
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := Default()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestValidate_AttrName(t *testing.T) {
	tests := []struct {
		name     string
		attrName string
		valid    bool
	}{
		{"default", "user.expire_at", true},
		{"trusted namespace", "trusted.expire_at", true},
		{"missing namespace", "expire_at", false},
		{"leading dot", ".expire_at", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.AttrName = tt.attrName

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_NonPositiveDurations(t *testing.T) {
	cfg := Default()
	cfg.SweepInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PollTimeout = -time.Second
	assert.Error(t, cfg.Validate())
}
