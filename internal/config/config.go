// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and ESTIMATOR_* env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding catalog-<timestamp>.json snapshots.
	DataDir string `koanf:"data_dir"`

	// HoursPerDay is the display divisor for the hours-to-days conversion.
	HoursPerDay float64 `koanf:"hours_per_day"`

	// MaxSelections caps the number of selections per estimate call.
	MaxSelections int `koanf:"max_selections"`

	// MetricsIntervalSeconds sets the system metrics refresh cadence.
	MetricsIntervalSeconds int `koanf:"metrics_interval_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		DataDir:                "data/catalogs",
		HoursPerDay:            8,
		MaxSelections:          100,
		MetricsIntervalSeconds: 10,
	}
}
