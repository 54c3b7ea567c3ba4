package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	setArgs(t, "-a", "https://flag.example.com", "-k", "flag-key", "-d", "/tmp/v.db", "-i", "30")

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "https://flag.example.com", cfg.APIBaseURL)
	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, "/tmp/v.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
}

func TestParseFlags_NoFlagsKeepDefaults(t *testing.T) {
	setArgs(t)

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "https://trinityemr.com/api/careviewapp", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.OnlineCheckInterval)
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	setArgs(t, "-c", "somewhere.json", "-k", "flag-key", "-unknown", "x")

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "flag-key", cfg.APIKey)
}
