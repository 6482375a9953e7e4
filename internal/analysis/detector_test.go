package analysis

import (
	"testing"

	"refwatch/domain/bias"
	"refwatch/domain/league"
	"refwatch/internal/config"
)

func evenConfig() config.AnalysisConfig {
	cfg := config.DefaultAnalysisConfig()
	cfg.HomeBiasBaseline = config.BaselineEven
	return cfg
}

func neutralBaseline() bias.LeagueBaseline {
	return bias.LeagueBaseline{
		MatchCount:           100,
		PenaltyCount:         400,
		AvgPenaltiesPerMatch: 4.0,
		HomeShare:            0.5,
		HomeBias:             0,
		FinalPeriodShare:     0.33,
		TypeShares: map[league.PenaltyType]float64{
			league.PenaltyTripping: 0.2,
			league.PenaltyHooking:  0.2,
			league.PenaltySlashing: 0.2,
			league.PenaltyRoughing: 0.2,
			league.PenaltyHolding:  0.2,
		},
	}
}

func neutralMetrics(matches, penalties int) *bias.RefereeMetrics {
	m := bias.NewRefereeMetrics(league.Referee{ID: "R1", Name: "Ref"})
	m.Matches = matches
	m.Penalties = penalties
	m.HomePenalties = penalties / 2
	m.AwayPenalties = penalties - penalties/2
	m.TimingValidPenalties = penalties
	m.FinalPeriodPenalties = penalties / 3
	for i := 0; i < penalties; i++ {
		m.TypeCounts[neutralBaselineTypes[i%len(neutralBaselineTypes)]]++
	}
	m.Finalize()
	return m
}

var neutralBaselineTypes = []league.PenaltyType{
	league.PenaltyTripping, league.PenaltyHooking, league.PenaltySlashing,
	league.PenaltyRoughing, league.PenaltyHolding,
}

func findKind(obs []bias.Observation, kind bias.ObservationKind) *bias.Observation {
	for i := range obs {
		if obs[i].Kind == kind {
			return &obs[i]
		}
	}
	return nil
}

func TestMinSampleSizeGate(t *testing.T) {
	d := NewDetector(evenConfig())
	m := neutralMetrics(2, 40) // wildly high rate but only 2 matches
	if obs := d.Detect(m, neutralBaseline()); obs != nil {
		t.Errorf("below-sample referee must produce no observations, got %d", len(obs))
	}
}

func TestNeutralRefereeProducesNoObservations(t *testing.T) {
	d := NewDetector(evenConfig())
	m := neutralMetrics(10, 40) // exactly league rate
	if obs := d.Detect(m, neutralBaseline()); len(obs) != 0 {
		t.Errorf("neutral referee flagged: %+v", obs)
	}
}

func TestRateRuleSeverityTiers(t *testing.T) {
	d := NewDetector(evenConfig())
	tests := []struct {
		penalties int // over 10 matches vs league rate 4.0
		want      bias.Severity
	}{
		{60, bias.SeverityMedium},    // 1.5x
		{80, bias.SeverityHigh},      // 2.0x
		{130, bias.SeverityCritical}, // 3.25x
	}
	for _, tt := range tests {
		m := neutralMetrics(10, tt.penalties)
		obs := findKind(d.Detect(m, neutralBaseline()), bias.KindPenaltyRate)
		if obs == nil {
			t.Errorf("%d penalties: expected rate observation", tt.penalties)
			continue
		}
		if obs.Severity != tt.want {
			t.Errorf("%d penalties: severity = %s, want %s", tt.penalties, obs.Severity, tt.want)
		}
	}
}

func TestRateRuleFlagsLowRates(t *testing.T) {
	d := NewDetector(evenConfig())
	m := neutralMetrics(10, 20) // 2.0/match vs 4.0 league: factor 2 below
	obs := findKind(d.Detect(m, neutralBaseline()), bias.KindPenaltyRate)
	if obs == nil {
		t.Fatal("low rate should flag symmetrically")
	}
	if obs.Severity != bias.SeverityHigh {
		t.Errorf("severity = %s, want HIGH at factor 2", obs.Severity)
	}
}

func TestRateRuleSilentAtZeroAverages(t *testing.T) {
	d := NewDetector(evenConfig())

	m := neutralMetrics(10, 0)
	if obs := findKind(d.Detect(m, neutralBaseline()), bias.KindPenaltyRate); obs != nil {
		t.Error("zero referee rate must not flag")
	}

	empty := bias.LeagueBaseline{TypeShares: map[league.PenaltyType]float64{}}
	m2 := neutralMetrics(10, 40)
	if obs := findKind(d.Detect(m2, empty), bias.KindPenaltyRate); obs != nil {
		t.Error("zero league rate must not flag")
	}
}

func TestHomeAwayRuleSeverityTiers(t *testing.T) {
	d := NewDetector(evenConfig())
	tests := []struct {
		home, away int
		want       bias.Severity
	}{
		{24, 16, bias.SeverityMedium},  // bias 20
		{28, 12, bias.SeverityHigh},    // bias 40
		{36, 4, bias.SeverityCritical}, // bias 80
	}
	for _, tt := range tests {
		m := neutralMetrics(10, tt.home+tt.away)
		m.HomePenalties, m.AwayPenalties = tt.home, tt.away
		m.Finalize()
		obs := findKind(d.Detect(m, neutralBaseline()), bias.KindHomeAwayBias)
		if obs == nil {
			t.Errorf("%d/%d: expected home/away observation", tt.home, tt.away)
			continue
		}
		if obs.Severity != tt.want {
			t.Errorf("%d/%d: severity = %s, want %s", tt.home, tt.away, obs.Severity, tt.want)
		}
	}
}

func TestHomeAwayLeagueBaselineAbsorbsLeagueTilt(t *testing.T) {
	cfg := config.DefaultAnalysisConfig() // league mode
	d := NewDetector(cfg)

	baseline := neutralBaseline()
	baseline.HomeBias = 20.0
	baseline.HomeShare = 0.6

	// Referee matches the league tilt exactly: no deviation, no flag.
	m := neutralMetrics(10, 40)
	m.HomePenalties, m.AwayPenalties = 24, 16
	m.Finalize()
	if obs := findKind(d.Detect(m, baseline), bias.KindHomeAwayBias); obs != nil {
		t.Error("referee matching league tilt must not flag under league baseline")
	}

	// Under the even baseline the same referee flags.
	dEven := NewDetector(evenConfig())
	if obs := findKind(dEven.Detect(m, baseline), bias.KindHomeAwayBias); obs == nil {
		t.Error("same referee should flag under even baseline")
	}
}

func TestTimingRuleThresholdAndTiers(t *testing.T) {
	d := NewDetector(evenConfig())

	m := neutralMetrics(10, 40)
	m.TimingValidPenalties = 40
	m.FinalPeriodPenalties = 24 // 0.60
	m.Finalize()
	obs := findKind(d.Detect(m, neutralBaseline()), bias.KindTimingPattern)
	if obs == nil || obs.Severity != bias.SeverityMedium {
		t.Errorf("share 0.60: want MEDIUM timing observation, got %+v", obs)
	}

	m.FinalPeriodPenalties = 28 // 0.70
	m.Finalize()
	obs = findKind(d.Detect(m, neutralBaseline()), bias.KindTimingPattern)
	if obs == nil || obs.Severity != bias.SeverityHigh {
		t.Errorf("share 0.70: want HIGH timing observation, got %+v", obs)
	}

	m.FinalPeriodPenalties = 20 // 0.50, below threshold
	m.Finalize()
	if obs = findKind(d.Detect(m, neutralBaseline()), bias.KindTimingPattern); obs != nil {
		t.Error("share 0.50 must not flag")
	}
}

func TestTypeBiasRuleRequiresMargin(t *testing.T) {
	d := NewDetector(evenConfig())
	baseline := neutralBaseline()

	// 45% tripping vs league 20%: share and margin both satisfied
	m := neutralMetrics(10, 40)
	m.TypeCounts = map[league.PenaltyType]int{
		league.PenaltyTripping: 18,
		league.PenaltyHooking:  12,
		league.PenaltySlashing: 10,
	}
	obs := findKind(d.Detect(m, baseline), bias.KindPenaltyTypeBias)
	if obs == nil || obs.Severity != bias.SeverityLow {
		t.Errorf("45%% top type: want LOW observation, got %+v", obs)
	}

	// Same share but the league also calls 40% tripping: margin fails
	baseline.TypeShares[league.PenaltyTripping] = 0.40
	if obs := findKind(d.Detect(m, baseline), bias.KindPenaltyTypeBias); obs != nil {
		t.Error("margin below 0.10 must not flag")
	}
}

func TestTypeBiasMediumAtDominantShare(t *testing.T) {
	d := NewDetector(evenConfig())
	m := neutralMetrics(10, 40)
	m.TypeCounts = map[league.PenaltyType]int{
		league.PenaltyHooking:  26, // 65%
		league.PenaltyTripping: 14,
	}
	obs := findKind(d.Detect(m, neutralBaseline()), bias.KindPenaltyTypeBias)
	if obs == nil || obs.Severity != bias.SeverityMedium {
		t.Errorf("65%% top type: want MEDIUM, got %+v", obs)
	}
}

func TestObservationsEmittedInKindOrder(t *testing.T) {
	d := NewDetector(evenConfig())

	// A referee tripping every rule at once
	m := neutralMetrics(10, 80)
	m.HomePenalties, m.AwayPenalties = 60, 20
	m.TimingValidPenalties = 80
	m.FinalPeriodPenalties = 60
	m.TypeCounts = map[league.PenaltyType]int{league.PenaltyHooking: 60, league.PenaltyTripping: 20}
	m.Finalize()

	obs := d.Detect(m, neutralBaseline())
	if len(obs) != 4 {
		t.Fatalf("expected 4 observations, got %d", len(obs))
	}
	for i, kind := range bias.KindOrder {
		if obs[i].Kind != kind {
			t.Errorf("position %d: kind = %s, want %s", i, obs[i].Kind, kind)
		}
	}
}
