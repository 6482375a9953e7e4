package config

import (
	"os"
	"strconv"

	"refwatch/internal/errors"
)

// BaselineMode selects what home-bias deviations are measured against
type BaselineMode string

const (
	// BaselineEven compares against a 50/50 home/away split
	BaselineEven BaselineMode = "even"
	// BaselineLeague compares against the league's actual home/away penalty split
	BaselineLeague BaselineMode = "league"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Database DatabaseConfig
	Server   ServerConfig
	Report   ReportConfig
}

// AnalysisConfig holds every detection threshold. Thresholds live here, not
// as constants in detection code.
type AnalysisConfig struct {
	// MinSampleSize is the minimum matches a referee needs before any
	// observation is emitted. Below it, raw counts are still reported.
	MinSampleSize int

	// RateDeviationFactor flags penalty rates deviating from the league
	// average by at least this multiplicative factor.
	RateDeviationFactor float64

	// HomeBiasThreshold flags home-bias deviations of at least this many
	// percentage points from the configured baseline.
	HomeBiasThreshold float64

	// TimingThreshold flags final-period penalty shares at or above this
	// fraction (uniform expectation is ~1/3).
	TimingThreshold float64

	// TypeShareThreshold flags a single penalty type accounting for at
	// least this fraction of a referee's calls.
	TypeShareThreshold float64

	// TypeShareMargin requires the referee's top-type share to exceed the
	// league-wide share of that type by at least this much.
	TypeShareMargin float64

	// HomeBiasBaseline resolves whether home bias is measured against a
	// 50% split or the league's observed split.
	HomeBiasBaseline BaselineMode
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence and the engine runs fully in-memory.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Port string
}

// ReportConfig holds report output paths. Empty paths disable the writer.
type ReportConfig struct {
	TextPath  string
	ExcelPath string
}

// DefaultAnalysisConfig returns the documented default thresholds
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MinSampleSize:       3,
		RateDeviationFactor: 1.5,
		HomeBiasThreshold:   15.0,
		TimingThreshold:     0.55,
		TypeShareThreshold:  0.40,
		TypeShareMargin:     0.10,
		HomeBiasBaseline:    BaselineLeague,
	}
}

// Load reads configuration from environment variables and validates it.
// Validation failures are fatal and surface before any computation begins.
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: loadAnalysisConfig(),
		Database: DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Server:   ServerConfig{Port: getEnvOrDefault("PORT", "8080")},
		Report: ReportConfig{
			TextPath:  getEnvOrDefault("REPORT_TEXT", ""),
			ExcelPath: getEnvOrDefault("REPORT_XLSX", ""),
		},
	}

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func loadAnalysisConfig() AnalysisConfig {
	def := DefaultAnalysisConfig()
	return AnalysisConfig{
		MinSampleSize:       getEnvIntOrDefault("MIN_SAMPLE_SIZE", def.MinSampleSize),
		RateDeviationFactor: getEnvFloatOrDefault("RATE_DEVIATION_FACTOR", def.RateDeviationFactor),
		HomeBiasThreshold:   getEnvFloatOrDefault("HOME_BIAS_THRESHOLD", def.HomeBiasThreshold),
		TimingThreshold:     getEnvFloatOrDefault("TIMING_THRESHOLD", def.TimingThreshold),
		TypeShareThreshold:  getEnvFloatOrDefault("TYPE_SHARE_THRESHOLD", def.TypeShareThreshold),
		TypeShareMargin:     getEnvFloatOrDefault("TYPE_SHARE_MARGIN", def.TypeShareMargin),
		HomeBiasBaseline:    BaselineMode(getEnvOrDefault("HOME_BIAS_BASELINE", string(def.HomeBiasBaseline))),
	}
}

// Validate rejects threshold values the detection rules cannot operate on
func (c AnalysisConfig) Validate() error {
	if c.MinSampleSize < 1 {
		return errors.ConfigInvalid("MIN_SAMPLE_SIZE must be at least 1")
	}
	if c.RateDeviationFactor <= 1.0 {
		return errors.ConfigInvalid("RATE_DEVIATION_FACTOR must be greater than 1.0")
	}
	if c.HomeBiasThreshold <= 0 || c.HomeBiasThreshold > 100 {
		return errors.ConfigInvalid("HOME_BIAS_THRESHOLD must be in (0, 100]")
	}
	if c.TimingThreshold <= 0 || c.TimingThreshold >= 1 {
		return errors.ConfigInvalid("TIMING_THRESHOLD must be in (0, 1)")
	}
	if c.TypeShareThreshold <= 0 || c.TypeShareThreshold >= 1 {
		return errors.ConfigInvalid("TYPE_SHARE_THRESHOLD must be in (0, 1)")
	}
	if c.TypeShareMargin < 0 || c.TypeShareMargin >= 1 {
		return errors.ConfigInvalid("TYPE_SHARE_MARGIN must be in [0, 1)")
	}
	if c.HomeBiasBaseline != BaselineEven && c.HomeBiasBaseline != BaselineLeague {
		return errors.ConfigInvalid("HOME_BIAS_BASELINE must be \"even\" or \"league\"")
	}
	return nil
}

// Thresholds returns the numeric thresholds as a flat map for run manifests
func (c AnalysisConfig) Thresholds() map[string]float64 {
	return map[string]float64{
		"min_sample_size":       float64(c.MinSampleSize),
		"rate_deviation_factor": c.RateDeviationFactor,
		"home_bias_threshold":   c.HomeBiasThreshold,
		"timing_threshold":      c.TimingThreshold,
		"type_share_threshold":  c.TypeShareThreshold,
		"type_share_margin":     c.TypeShareMargin,
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
