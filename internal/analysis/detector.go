package analysis

import (
	"fmt"
	"math"

	"refwatch/domain/bias"
	"refwatch/internal"
	"refwatch/internal/config"
)

// Rule is a single detection check. A rule either produces one observation
// of its fixed kind or stays silent; it never mutates the metrics it reads.
type Rule interface {
	Kind() bias.ObservationKind
	Evaluate(m *bias.RefereeMetrics, baseline bias.LeagueBaseline) (bias.Observation, bool)
}

// Detector evaluates every rule against per-referee metrics. Rules run in
// canonical kind order so observation lists are reproducible.
type Detector struct {
	cfg   config.AnalysisConfig
	rules []Rule
	log   *internal.Logger
}

// NewDetector creates a detector with the four built-in rules
func NewDetector(cfg config.AnalysisConfig) *Detector {
	return &Detector{
		cfg: cfg,
		rules: []Rule{
			&rateRule{cfg: cfg},
			&homeAwayRule{cfg: cfg},
			&timingRule{cfg: cfg},
			&typeBiasRule{cfg: cfg},
		},
		log: internal.DefaultLogger.WithPrefix("detector"),
	}
}

// Detect returns the ordered observations for one referee, or nil when the
// referee's match count is below the minimum sample size. Sub-threshold
// referees keep their raw counts; they just produce no observations.
func (d *Detector) Detect(m *bias.RefereeMetrics, baseline bias.LeagueBaseline) []bias.Observation {
	if m.Matches < d.cfg.MinSampleSize {
		d.log.Debug("referee %s below sample minimum (%d < %d)", m.RefereeID, m.Matches, d.cfg.MinSampleSize)
		return nil
	}

	var observations []bias.Observation
	for _, r := range d.rules {
		obs, ok := r.Evaluate(m, baseline)
		if !ok {
			continue
		}
		observations = append(observations, obs)
	}
	return observations
}

// ============================================================================
// PENALTY_RATE
// ============================================================================

type rateRule struct {
	cfg config.AnalysisConfig
}

func (r *rateRule) Kind() bias.ObservationKind { return bias.KindPenaltyRate }

// Evaluate flags referees whose per-match penalty rate deviates from the
// league average by the configured multiplicative factor, in either
// direction. A zero rate on either side makes the ratio undefined, so no
// flag is raised.
func (r *rateRule) Evaluate(m *bias.RefereeMetrics, baseline bias.LeagueBaseline) (bias.Observation, bool) {
	if m.AvgPenalties == 0 || baseline.AvgPenaltiesPerMatch == 0 {
		return bias.Observation{}, false
	}

	ratio := m.AvgPenalties / baseline.AvgPenaltiesPerMatch
	factor := math.Max(ratio, 1/ratio)
	if factor < r.cfg.RateDeviationFactor {
		return bias.Observation{}, false
	}

	severity := bias.SeverityMedium
	switch {
	case factor >= 3:
		severity = bias.SeverityCritical
	case factor >= 2:
		severity = bias.SeverityHigh
	}

	direction := "above"
	if ratio < 1 {
		direction = "below"
	}
	desc := fmt.Sprintf("Penalty rate %.2f/match is %.1fx %s the league average of %.2f/match",
		m.AvgPenalties, factor, direction, baseline.AvgPenaltiesPerMatch)

	obs, err := bias.NewObservation(bias.KindPenaltyRate, severity, desc, map[string]float64{
		"avg_penalties": m.AvgPenalties,
		"league_avg":    baseline.AvgPenaltiesPerMatch,
		"factor":        factor,
		"p_value":       rateDeviationPValue(m.Penalties, m.Matches, baseline.AvgPenaltiesPerMatch),
	})
	if err != nil {
		return bias.Observation{}, false
	}
	return obs, true
}

// ============================================================================
// HOME_AWAY_BIAS
// ============================================================================

type homeAwayRule struct {
	cfg config.AnalysisConfig
}

func (r *homeAwayRule) Kind() bias.ObservationKind { return bias.KindHomeAwayBias }

// Evaluate flags referees whose signed home-bias percentage deviates from
// the configured baseline by the threshold. Under the "league" baseline a
// referee is compared against the league's own home/away split, which keeps
// a league-wide tilt from flagging every referee at once.
func (r *homeAwayRule) Evaluate(m *bias.RefereeMetrics, baseline bias.LeagueBaseline) (bias.Observation, bool) {
	if m.Penalties == 0 {
		return bias.Observation{}, false
	}

	base := 0.0
	expectedHomeShare := 0.5
	if r.cfg.HomeBiasBaseline == config.BaselineLeague {
		base = baseline.HomeBias
		expectedHomeShare = baseline.HomeShare
	}

	deviation := m.HomeBias - base
	abs := math.Abs(deviation)
	if abs < r.cfg.HomeBiasThreshold {
		return bias.Observation{}, false
	}

	severity := bias.SeverityMedium
	switch {
	case abs > 40:
		severity = bias.SeverityCritical
	case abs > 25:
		severity = bias.SeverityHigh
	}

	side := "home"
	if deviation < 0 {
		side = "away"
	}
	desc := fmt.Sprintf("Penalizes the %s side %.1f points more than the baseline (%d home vs %d away)",
		side, abs, m.HomePenalties, m.AwayPenalties)

	obs, err := bias.NewObservation(bias.KindHomeAwayBias, severity, desc, map[string]float64{
		"home_bias": m.HomeBias,
		"baseline":  base,
		"deviation": deviation,
		"p_value":   proportionPValue(m.HomePenalties, m.Penalties, expectedHomeShare),
	})
	if err != nil {
		return bias.Observation{}, false
	}
	return obs, true
}

// ============================================================================
// TIMING_PATTERN
// ============================================================================

type timingRule struct {
	cfg config.AnalysisConfig
}

func (r *timingRule) Kind() bias.ObservationKind { return bias.KindTimingPattern }

// Evaluate flags referees who concentrate calls in the final regulation
// period. Only timing-valid regulation penalties enter the denominator;
// overtime calls are excluded entirely.
func (r *timingRule) Evaluate(m *bias.RefereeMetrics, baseline bias.LeagueBaseline) (bias.Observation, bool) {
	if m.TimingValidPenalties == 0 {
		return bias.Observation{}, false
	}
	if m.FinalPeriodShare < r.cfg.TimingThreshold {
		return bias.Observation{}, false
	}

	severity := bias.SeverityMedium
	if m.FinalPeriodShare >= r.cfg.TimingThreshold+0.15 {
		severity = bias.SeverityHigh
	}

	expected := baseline.FinalPeriodShare
	if expected <= 0 || expected >= 1 {
		expected = 1.0 / 3.0
	}
	desc := fmt.Sprintf("%.0f%% of penalties called in the final period (%d of %d)",
		100*m.FinalPeriodShare, m.FinalPeriodPenalties, m.TimingValidPenalties)

	obs, err := bias.NewObservation(bias.KindTimingPattern, severity, desc, map[string]float64{
		"final_period_share": m.FinalPeriodShare,
		"league_share":       baseline.FinalPeriodShare,
		"p_value":            proportionPValue(m.FinalPeriodPenalties, m.TimingValidPenalties, expected),
	})
	if err != nil {
		return bias.Observation{}, false
	}
	return obs, true
}

// ============================================================================
// PENALTY_TYPE_BIAS
// ============================================================================

type typeBiasRule struct {
	cfg config.AnalysisConfig
}

func (r *typeBiasRule) Kind() bias.ObservationKind { return bias.KindPenaltyTypeBias }

// Evaluate flags referees whose most frequent penalty type dominates their
// calls and also exceeds the league-wide share of that type by the
// configured margin. The margin keeps a league-wide favorite type from
// flagging everyone.
func (r *typeBiasRule) Evaluate(m *bias.RefereeMetrics, baseline bias.LeagueBaseline) (bias.Observation, bool) {
	if m.Penalties == 0 {
		return bias.Observation{}, false
	}

	topType, topCount := m.TopType()
	share := float64(topCount) / float64(m.Penalties)
	if share < r.cfg.TypeShareThreshold {
		return bias.Observation{}, false
	}
	leagueShare := baseline.TypeShares[topType]
	if share-leagueShare < r.cfg.TypeShareMargin {
		return bias.Observation{}, false
	}

	severity := bias.SeverityLow
	if share >= 0.60 {
		severity = bias.SeverityMedium
	}

	counts := make(map[string]int, len(m.TypeCounts))
	for t, c := range m.TypeCounts {
		counts[string(t)] = c
	}
	shares := make(map[string]float64, len(baseline.TypeShares))
	for t, s := range baseline.TypeShares {
		shares[string(t)] = s
	}
	statistic, df := typeGoodnessOfFit(counts, m.Penalties, shares)

	desc := fmt.Sprintf("%.0f%% of calls are %s (%d of %d, league-wide %.0f%%)",
		100*share, topType, topCount, m.Penalties, 100*leagueShare)

	obs, err := bias.NewObservation(bias.KindPenaltyTypeBias, severity, desc, map[string]float64{
		"top_type_share": share,
		"league_share":   leagueShare,
		"chi_square":     statistic,
		"p_value":        chiSquarePValue(statistic, df),
	})
	if err != nil {
		return bias.Observation{}, false
	}
	return obs, true
}
