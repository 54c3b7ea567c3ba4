package config

import "time"

// Config holds runtime settings for the vitalsync agent.
//
// Fields:
//   - APIBaseURL: base URL of the EMR backend.
//   - APIKey: static API key sent on every sync request.
//   - DatabasePath: path of the local SQLite database.
//   - RequestTimeout: per-request timeout for the EMR client.
//   - OnlineCheckInterval: how often the agent probes backend reachability.
//   - BackgroundSyncInterval: how often the background safety-net sync fires.
//   - BatchSize: readings per sync request.
//
// Units: intervals are time.Duration values (e.g., 15*time.Second).
type Config struct {
	APIBaseURL             string
	APIKey                 string
	DatabasePath           string
	RequestTimeout         time.Duration
	OnlineCheckInterval    time.Duration
	BackgroundSyncInterval time.Duration
	BatchSize              int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://trinityemr.com/api/careviewapp"
	c.APIKey = ""
	c.DatabasePath = "vitalsync.db"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 15 * time.Second
	c.BackgroundSyncInterval = time.Minute
	c.BatchSize = 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
