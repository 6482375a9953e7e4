package config

import (
	"testing"
)

func TestDefaultAnalysisConfigIsValid(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.MinSampleSize != 3 {
		t.Errorf("MinSampleSize = %d, want 3", cfg.MinSampleSize)
	}
	if cfg.RateDeviationFactor != 1.5 {
		t.Errorf("RateDeviationFactor = %v, want 1.5", cfg.RateDeviationFactor)
	}
	if cfg.HomeBiasThreshold != 15.0 {
		t.Errorf("HomeBiasThreshold = %v, want 15.0", cfg.HomeBiasThreshold)
	}
	if cfg.TimingThreshold != 0.55 {
		t.Errorf("TimingThreshold = %v, want 0.55", cfg.TimingThreshold)
	}
	if cfg.TypeShareThreshold != 0.40 {
		t.Errorf("TypeShareThreshold = %v, want 0.40", cfg.TypeShareThreshold)
	}
	if cfg.HomeBiasBaseline != BaselineLeague {
		t.Errorf("HomeBiasBaseline = %s, want league", cfg.HomeBiasBaseline)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AnalysisConfig)
	}{
		{"zero sample size", func(c *AnalysisConfig) { c.MinSampleSize = 0 }},
		{"rate factor at 1.0", func(c *AnalysisConfig) { c.RateDeviationFactor = 1.0 }},
		{"negative home bias", func(c *AnalysisConfig) { c.HomeBiasThreshold = -5 }},
		{"home bias over 100", func(c *AnalysisConfig) { c.HomeBiasThreshold = 150 }},
		{"timing at 1", func(c *AnalysisConfig) { c.TimingThreshold = 1.0 }},
		{"type share at 0", func(c *AnalysisConfig) { c.TypeShareThreshold = 0 }},
		{"negative margin", func(c *AnalysisConfig) { c.TypeShareMargin = -0.1 }},
		{"unknown baseline mode", func(c *AnalysisConfig) { c.HomeBiasBaseline = "auto" }},
	}
	for _, tc := range cases {
		cfg := DefaultAnalysisConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("MIN_SAMPLE_SIZE", "5")
	t.Setenv("RATE_DEVIATION_FACTOR", "2.0")
	t.Setenv("HOME_BIAS_BASELINE", "even")
	t.Setenv("PORT", "9191")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Analysis.MinSampleSize != 5 {
		t.Errorf("MinSampleSize = %d, want 5", cfg.Analysis.MinSampleSize)
	}
	if cfg.Analysis.RateDeviationFactor != 2.0 {
		t.Errorf("RateDeviationFactor = %v, want 2.0", cfg.Analysis.RateDeviationFactor)
	}
	if cfg.Analysis.HomeBiasBaseline != BaselineEven {
		t.Errorf("HomeBiasBaseline = %s, want even", cfg.Analysis.HomeBiasBaseline)
	}
	if cfg.Server.Port != "9191" {
		t.Errorf("Port = %s, want 9191", cfg.Server.Port)
	}
}

func TestLoadFailsBeforeComputeOnBadEnv(t *testing.T) {
	t.Setenv("TIMING_THRESHOLD", "1.5")
	if _, err := Load(); err == nil {
		t.Error("out-of-range TIMING_THRESHOLD must fail Load")
	}
}

func TestThresholdsMapComplete(t *testing.T) {
	m := DefaultAnalysisConfig().Thresholds()
	for _, key := range []string{"min_sample_size", "rate_deviation_factor",
		"home_bias_threshold", "timing_threshold", "type_share_threshold", "type_share_margin"} {
		if _, ok := m[key]; !ok {
			t.Errorf("thresholds map missing %s", key)
		}
	}
}
