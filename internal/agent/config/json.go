package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/careview/vitalsync/internal/flagx"
	"github.com/careview/vitalsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL             string         `json:"api_base_url"`
	APIKey                 string         `json:"api_key"`
	DatabasePath           string         `json:"database_path"`
	RequestTimeout         timex.Duration `json:"request_timeout"`
	OnlineCheckInterval    timex.Duration `json:"online_check_interval"`
	BackgroundSyncInterval timex.Duration `json:"background_sync_interval"`
	BatchSize              int            `json:"batch_size"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override the current values. Intended usage
// is: defaults -> parseJson -> parseFlags, where later stages override
// earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.APIKey != "" {
		cfg.APIKey = jc.APIKey
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.BackgroundSyncInterval.Duration != 0 {
		cfg.BackgroundSyncInterval = time.Duration(jc.BackgroundSyncInterval.Duration)
	}
	if jc.BatchSize != 0 {
		cfg.BatchSize = jc.BatchSize
	}
}
