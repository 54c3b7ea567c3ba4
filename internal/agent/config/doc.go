// Package config loads the agent's runtime settings.
//
// Settings come from three layered sources, later ones winning:
//
//  1. Built-in defaults (LoadDefaults).
//  2. A JSON file, if a path is given via -c/-config.
//  3. Command-line flags.
//
// Durations in JSON accept either strings like "15s" or integer nanoseconds
// (see internal/timex).
package config
