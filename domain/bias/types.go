package bias

import (
	"fmt"

	"refwatch/domain/core"
	"refwatch/domain/league"
)

// ============================================================================
// OBSERVATION MODEL (closed tagged variants — no free-form kind/severity)
// ============================================================================

// ObservationKind enumerates the four detection rules. The set is closed:
// detection code must not invent new kinds at runtime.
type ObservationKind string

const (
	KindPenaltyRate     ObservationKind = "PENALTY_RATE"
	KindHomeAwayBias    ObservationKind = "HOME_AWAY_BIAS"
	KindTimingPattern   ObservationKind = "TIMING_PATTERN"
	KindPenaltyTypeBias ObservationKind = "PENALTY_TYPE_BIAS"
)

// KindOrder fixes the canonical emission order of observations per referee,
// so output is reproducible across runs on identical input.
var KindOrder = []ObservationKind{
	KindPenaltyRate,
	KindHomeAwayBias,
	KindTimingPattern,
	KindPenaltyTypeBias,
}

// Valid reports whether k is a recognized observation kind
func (k ObservationKind) Valid() bool {
	switch k {
	case KindPenaltyRate, KindHomeAwayBias, KindTimingPattern, KindPenaltyTypeBias:
		return true
	}
	return false
}

// Severity is the ordinal classification of how strongly an observation
// deviates from the league baseline.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank returns the ordinal position of the severity (LOW < MEDIUM < HIGH < CRITICAL)
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// Valid reports whether s is a recognized severity
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// Observation is a single flagged anomaly for a referee. Observations are
// derived outputs, recomputed each analysis run, never persisted as
// source-of-truth. Evidence carries the numeric backing for the finding;
// the external payload contract exposes only type/severity/description.
type Observation struct {
	Kind        ObservationKind    `json:"kind"`
	Severity    Severity           `json:"severity"`
	Description string             `json:"description"`
	Evidence    map[string]float64 `json:"evidence,omitempty"`
}

// NewObservation creates a validated observation
func NewObservation(kind ObservationKind, severity Severity, description string, evidence map[string]float64) (Observation, error) {
	if !kind.Valid() {
		return Observation{}, fmt.Errorf("unknown observation kind %q", kind)
	}
	if !severity.Valid() {
		return Observation{}, fmt.Errorf("unknown severity %q", severity)
	}
	if description == "" {
		return Observation{}, fmt.Errorf("observation description cannot be empty")
	}
	return Observation{Kind: kind, Severity: severity, Description: description, Evidence: evidence}, nil
}

// ObservationPayload is the flat wire shape consumed by presentation layers
type ObservationPayload struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ToPayload converts the observation to its flat wire shape
func (o Observation) ToPayload() ObservationPayload {
	return ObservationPayload{
		Type:        string(o.Kind),
		Severity:    string(o.Severity),
		Description: o.Description,
	}
}

// ============================================================================
// PER-REFEREE METRICS (owned and mutated by the statistical processor)
// ============================================================================

// RefereeMetrics aggregates a single referee's record over one league-season.
// A referee with zero matches never materializes here, so AvgPenalties is
// defined by construction.
type RefereeMetrics struct {
	RefereeID core.RefereeID `json:"referee_id"`
	Name      string         `json:"name"`

	Matches        int `json:"matches"`
	Penalties      int `json:"penalties"`
	HomePenalties  int `json:"home_penalties"`
	AwayPenalties  int `json:"away_penalties"`
	PenaltyMinutes int `json:"penalty_minutes"`

	// Timing: only penalties with TimingValid=true in regulation periods
	// enter the timing denominator. Overtime counts toward totals only.
	TimingValidPenalties int `json:"timing_valid_penalties"`
	FinalPeriodPenalties int `json:"final_period_penalties"`
	OvertimePenalties    int `json:"overtime_penalties"`

	TypeCounts      map[league.PenaltyType]int     `json:"type_counts"`
	SituationCounts map[league.SituationBucket]int `json:"situation_counts"`

	// Derived metrics, fixed during Finalize
	AvgPenalties     float64 `json:"avg_penalties"`
	HomeBias         float64 `json:"home_bias"` // 100*(home-away)/total, signed percentage
	FinalPeriodShare float64 `json:"final_period_share"`
}

// NewRefereeMetrics initializes an empty aggregate for a referee
func NewRefereeMetrics(ref league.Referee) *RefereeMetrics {
	return &RefereeMetrics{
		RefereeID:       ref.ID,
		Name:            ref.Name,
		TypeCounts:      make(map[league.PenaltyType]int),
		SituationCounts: make(map[league.SituationBucket]int),
	}
}

// Finalize computes the derived metrics from the raw counters.
// HomeBias is exactly 0 when home and away counts are equal and always
// stays within [-100, 100].
func (m *RefereeMetrics) Finalize() {
	if m.Matches > 0 {
		m.AvgPenalties = float64(m.Penalties) / float64(m.Matches)
	}
	if m.Penalties > 0 {
		m.HomeBias = 100 * float64(m.HomePenalties-m.AwayPenalties) / float64(m.Penalties)
	}
	if m.TimingValidPenalties > 0 {
		m.FinalPeriodShare = float64(m.FinalPeriodPenalties) / float64(m.TimingValidPenalties)
	}
}

// TopType returns the most frequent canonical penalty type and its count.
// Ties break by canonical type order so the result is deterministic.
func (m *RefereeMetrics) TopType() (league.PenaltyType, int) {
	best := league.PenaltyType("")
	bestCount := 0
	for _, t := range league.CanonicalTypeOrder {
		if c := m.TypeCounts[t]; c > bestCount {
			best, bestCount = t, c
		}
	}
	return best, bestCount
}

// ============================================================================
// LEAGUE BASELINE
// ============================================================================

// PerMatchStats summarizes the distribution of penalty counts per match
type PerMatchStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// LeagueBaseline carries league-wide aggregates the detector compares against
type LeagueBaseline struct {
	MatchCount   int `json:"match_count"`
	PenaltyCount int `json:"penalty_count"`

	AvgPenaltiesPerMatch float64 `json:"avg_penalties_per_match"`
	HomeShare            float64 `json:"home_share"` // fraction of penalties on the home side
	HomeBias             float64 `json:"home_bias"`  // 100*(home-away)/total across the league
	FinalPeriodShare     float64 `json:"final_period_share"`

	TypeShares map[league.PenaltyType]float64 `json:"type_shares"`
	PerMatch   PerMatchStats                  `json:"per_match"`
}

// ============================================================================
// PROFILE (external contract)
// ============================================================================

// RefereeProfile is the per-referee output of a completed analysis run.
// Immutable once the run completes; consumed read-only by presentation layers.
type RefereeProfile struct {
	RefereeID core.RefereeID `json:"referee_id"`
	Name      string         `json:"name"`

	Matches          int     `json:"matches"`
	Penalties        int     `json:"penalties"`
	AvgPenalties     float64 `json:"avg_penalties"`
	HomeBias         float64 `json:"home_bias"`
	FinalPeriodShare float64 `json:"final_period_share"`

	// InsufficientSample marks referees below the configured minimum match
	// count: raw counts are still reported but observations are suppressed.
	InsufficientSample bool `json:"insufficient_sample,omitempty"`

	Observations []Observation `json:"observations"`
}

// ProfilePayload is the bit-exact flat record a presentation layer renders:
// plain numbers, homeBias as a signed percentage, observations ordered.
type ProfilePayload struct {
	Matches      int                  `json:"matches"`
	Penalties    int                  `json:"penalties"`
	AvgPenalties float64              `json:"avgPenalties"`
	HomeBias     float64              `json:"homeBias"`
	Observations []ObservationPayload `json:"observations"`
}

// ToPayload converts the profile to the flat wire contract
func (p *RefereeProfile) ToPayload() ProfilePayload {
	obs := make([]ObservationPayload, 0, len(p.Observations))
	for _, o := range p.Observations {
		obs = append(obs, o.ToPayload())
	}
	return ProfilePayload{
		Matches:      p.Matches,
		Penalties:    p.Penalties,
		AvgPenalties: p.AvgPenalties,
		HomeBias:     p.HomeBias,
		Observations: obs,
	}
}
