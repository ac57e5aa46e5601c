package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Places.BaseURL)
	assert.Equal(t, 10, cfg.Places.MaxResults)

	assert.Equal(t, 50.0, cfg.Match.VeryCloseM)
	assert.Equal(t, 100.0, cfg.Match.CloseM)
	assert.Equal(t, 500.0, cfg.Match.FarM)
	assert.Equal(t, 0.3, cfg.Match.LowSimilarity)
	assert.Equal(t, 0.6, cfg.Match.HighSimilarity)
	assert.Equal(t, 0.7, cfg.Match.DistanceWeight)
	assert.Equal(t, 0.3, cfg.Match.NameWeight)

	assert.Equal(t, []int{500, 1000, 2000}, cfg.Verify.RadiiM)
	assert.Equal(t, 250, cfg.Verify.RequestDelayMs)
	assert.Equal(t, 30, cfg.Verify.CooldownSecs)
	assert.Equal(t, 25, cfg.Verify.CheckpointEvery)
	assert.Equal(t, 10, cfg.Verify.MaxImages)

	assert.Equal(t, 720, cfg.Cache.TTLHours)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PLACELINK_PLACES_API_KEY", "test-key")
	t.Setenv("PLACELINK_VERIFY_REQUEST_DELAY_MS", "50")
	t.Setenv("PLACELINK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Places.APIKey)
	assert.Equal(t, 50, cfg.Verify.RequestDelayMs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func validConfig() *Config {
	return &Config{
		Match: MatchConfig{
			VeryCloseM: 50, CloseM: 100, FarM: 500,
			LowSimilarity: 0.3, HighSimilarity: 0.6,
			DistanceWeight: 0.7, NameWeight: 0.3,
		},
		Verify: VerifyConfig{
			RadiiM:          []int{500, 1000, 2000},
			CheckpointEvery: 25,
		},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiers not increasing", func(c *Config) { c.Match.CloseM = 50 }},
		{"very close zero", func(c *Config) { c.Match.VeryCloseM = 0 }},
		{"similarity out of range", func(c *Config) { c.Match.HighSimilarity = 1.5 }},
		{"low above high", func(c *Config) { c.Match.LowSimilarity = 0.9 }},
		{"negative weight", func(c *Config) { c.Match.NameWeight = -0.1 }},
		{"both weights zero", func(c *Config) { c.Match.DistanceWeight = 0; c.Match.NameWeight = 0 }},
		{"no radii", func(c *Config) { c.Verify.RadiiM = nil }},
		{"radii out of order", func(c *Config) { c.Verify.RadiiM = []int{2000, 500} }},
		{"checkpoint zero", func(c *Config) { c.Verify.CheckpointEvery = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
