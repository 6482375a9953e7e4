package league

import (
	"time"

	"refwatch/domain/core"
)

// Sport identifies the source league's sport
type Sport string

const (
	SportHockey    Sport = "hockey"
	SportFloorball Sport = "floorball"
	SportBandy     Sport = "bandy"
)

// Period numbers a playing period. Regulation play is periods 1-3;
// PeriodOvertime covers any extra time.
type Period int

const (
	Period1        Period = 1
	Period2        Period = 2
	Period3        Period = 3
	PeriodOvertime Period = 4
)

// FinalRegulationPeriod is the period timing analysis measures against.
const FinalRegulationPeriod = Period3

// Valid reports whether the period is inside the allowed domain
func (p Period) Valid() bool {
	return p >= Period1 && p <= PeriodOvertime
}

// PenaltyType is the canonical, sport-neutral penalty taxonomy. Sport-specific
// labels are mapped into this space during ingestion; the original label is
// retained on the Penalty for traceability.
type PenaltyType string

const (
	PenaltyTripping        PenaltyType = "tripping"
	PenaltyHooking         PenaltyType = "hooking"
	PenaltySlashing        PenaltyType = "slashing"
	PenaltyHighSticking    PenaltyType = "high_sticking"
	PenaltyRoughing        PenaltyType = "roughing"
	PenaltyInterference    PenaltyType = "interference"
	PenaltyHolding         PenaltyType = "holding"
	PenaltyCrossChecking   PenaltyType = "cross_checking"
	PenaltyDelayOfGame     PenaltyType = "delay_of_game"
	PenaltyTooManyPlayers  PenaltyType = "too_many_players"
	PenaltyUnsportsmanlike PenaltyType = "unsportsmanlike"
	PenaltyMisconduct      PenaltyType = "misconduct"
	PenaltyOther           PenaltyType = "other"
)

// CanonicalTypeOrder fixes a deterministic ordering over penalty types,
// used for tie-breaking and stable iteration.
var CanonicalTypeOrder = []PenaltyType{
	PenaltyTripping,
	PenaltyHooking,
	PenaltySlashing,
	PenaltyHighSticking,
	PenaltyRoughing,
	PenaltyInterference,
	PenaltyHolding,
	PenaltyCrossChecking,
	PenaltyDelayOfGame,
	PenaltyTooManyPlayers,
	PenaltyUnsportsmanlike,
	PenaltyMisconduct,
	PenaltyOther,
}

// TypeRank returns the position of t in the canonical ordering
func TypeRank(t PenaltyType) int {
	for i, ct := range CanonicalTypeOrder {
		if ct == t {
			return i
		}
	}
	return len(CanonicalTypeOrder)
}

// Side identifies which bench a penalty was assessed against
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// StrengthState captures on-ice strength when a penalty was called
type StrengthState string

const (
	StrengthEven        StrengthState = "even"
	StrengthPowerPlay   StrengthState = "power_play"
	StrengthShortHanded StrengthState = "short_handed"
)

// SituationBucket classifies the score context of a penalty
type SituationBucket string

const (
	SituationClose    SituationBucket = "close_game"
	SituationModerate SituationBucket = "moderate_lead"
	SituationBlowout  SituationBucket = "blowout"
)

// GameSituation is the score/strength context at the moment of a call
type GameSituation struct {
	ScoreDiff int           `json:"score_diff"` // home minus away at time of call
	Strength  StrengthState `json:"strength"`
}

// Bucket classifies the absolute score differential into a situation bucket
func (g GameSituation) Bucket() SituationBucket {
	diff := g.ScoreDiff
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 1:
		return SituationClose
	case diff <= 3:
		return SituationModerate
	default:
		return SituationBlowout
	}
}

// Referee identity. Aggregate counters live on bias.RefereeMetrics, which the
// statistical processor owns exclusively during an analysis pass.
type Referee struct {
	ID   core.RefereeID `json:"id"`
	Name string         `json:"name"`
}

// Team identity
type Team struct {
	ID   core.TeamID `json:"id"`
	Name string      `json:"name"`
}

// RefereeRole distinguishes the main referee (bias attribution target) from
// assistants/linesmen.
type RefereeRole string

const (
	RoleMain      RefereeRole = "main"
	RoleAssistant RefereeRole = "assistant"
)

// RefereeAssignment binds a referee to a match in a given role
type RefereeAssignment struct {
	Referee Referee     `json:"referee"`
	Role    RefereeRole `json:"role"`
}

// Match is a single normalized fixture.
// Invariant: exactly one assignment with RoleMain (enforced at ingestion).
type Match struct {
	ID        core.MatchID        `json:"id"`
	SeasonID  core.SeasonID       `json:"season_id"`
	Sport     Sport               `json:"sport"`
	Date      core.Timestamp      `json:"date"`
	HomeTeam  Team                `json:"home_team"`
	AwayTeam  Team                `json:"away_team"`
	Referees  []RefereeAssignment `json:"referees"`
	HomeScore int                 `json:"home_score"`
	AwayScore int                 `json:"away_score"`
	Venue     string              `json:"venue,omitempty"`
}

// MainReferee returns the match's main referee, if assigned
func (m *Match) MainReferee() (Referee, bool) {
	for _, a := range m.Referees {
		if a.Role == RoleMain {
			return a.Referee, true
		}
	}
	return Referee{}, false
}

// HasReferee reports whether refID is assigned to the match in any role
func (m *Match) HasReferee(refID core.RefereeID) bool {
	for _, a := range m.Referees {
		if a.Referee.ID == refID {
			return true
		}
	}
	return false
}

// Penalty is a single normalized infraction call.
// Invariants: Period.Valid(); TimeInPeriod within the period duration for the
// sport (TimingValid=false otherwise, in which case the record is excluded
// from timing analysis but retained for counts).
type Penalty struct {
	ID            core.PenaltyID `json:"id"`
	MatchID       core.MatchID   `json:"match_id"`
	RefereeID     core.RefereeID `json:"referee_id"`
	Type          PenaltyType    `json:"type"`
	OriginalLabel string         `json:"original_label,omitempty"`
	Period        Period         `json:"period"`
	TimeInPeriod  time.Duration  `json:"time_in_period"`
	Minutes       int            `json:"minutes"` // assessed penalty minutes
	Side          Side           `json:"side"`
	Situation     GameSituation  `json:"situation"`
	TimingValid   bool           `json:"timing_valid"`
}

// Snapshot is a fully materialized, validated league-season dataset. A single
// analysis pass consumes one snapshot; snapshots for different seasons share
// no mutable state and may be processed in parallel.
type Snapshot struct {
	SeasonID  core.SeasonID `json:"season_id"`
	Sport     Sport         `json:"sport"`
	Matches   []Match       `json:"matches"`
	Penalties []Penalty     `json:"penalties"`
}

// MatchIndex builds a lookup from match ID to match
func (s *Snapshot) MatchIndex() map[core.MatchID]*Match {
	idx := make(map[core.MatchID]*Match, len(s.Matches))
	for i := range s.Matches {
		idx[s.Matches[i].ID] = &s.Matches[i]
	}
	return idx
}

// Empty reports whether the snapshot carries no matches
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Matches) == 0
}
