package ingest

import (
	"fmt"
	"time"

	"refwatch/domain/core"
	"refwatch/domain/league"
	"refwatch/internal"
	"refwatch/internal/errors"
)

// RawOfficial is an unvalidated referee assignment from a sport-specific feed
type RawOfficial struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"` // "main" or "assistant"; empty means assistant
}

// RawMatch is an unvalidated fixture record from a sport-specific feed
type RawMatch struct {
	ID        string        `json:"id"`
	Date      time.Time     `json:"date"`
	HomeTeam  string        `json:"home_team"`
	AwayTeam  string        `json:"away_team"`
	HomeScore int           `json:"home_score"`
	AwayScore int           `json:"away_score"`
	Venue     string        `json:"venue"`
	Officials []RawOfficial `json:"officials"`
}

// RawPenalty is an unvalidated infraction record from a sport-specific feed.
// Minute/Second locate the call inside its period.
type RawPenalty struct {
	ID        string `json:"id"`
	MatchID   string `json:"match_id"`
	RefereeID string `json:"referee_id"` // empty: attributed to the match's main referee
	Label     string `json:"label"`      // sport-specific penalty name
	Period    int    `json:"period"`
	Minute    int    `json:"minute"`
	Second    int    `json:"second"`
	Minutes   int    `json:"minutes"` // assessed penalty minutes
	IsHome    bool   `json:"is_home"`
	ScoreDiff int    `json:"score_diff"` // home minus away at time of call
	Strength  string `json:"strength"`   // even / power_play / short_handed
}

// RawSeason is the full unvalidated input for one league-season partition
type RawSeason struct {
	SeasonID  string       `json:"season_id"`
	Sport     league.Sport `json:"sport"`
	Matches   []RawMatch   `json:"matches"`
	Penalties []RawPenalty `json:"penalties"`
}

// Rejection records one excluded record and why
type Rejection struct {
	Kind   string `json:"kind"` // "match" or "penalty"
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Rejections aggregates everything the normalizer excluded or flagged.
// Exclusion is always scoped to the offending record; a bad match never
// aborts the batch.
type Rejections struct {
	Matches        []Rejection `json:"matches"`
	Penalties      []Rejection `json:"penalties"`
	TimingExcluded int         `json:"timing_excluded"`
}

// Normalizer turns heterogeneous per-sport records into a validated Snapshot
type Normalizer struct {
	taxonomy *Taxonomy
	log      *internal.Logger
}

// NewNormalizer creates a normalizer over the built-in taxonomy
func NewNormalizer() *Normalizer {
	return &Normalizer{
		taxonomy: NewTaxonomy(),
		log:      internal.DefaultLogger.WithPrefix("ingest"),
	}
}

// Normalize validates and converts a raw season into a Snapshot.
// Matches without any referee assignment, or without exactly one main
// referee, are rejected with a data-completeness reason. Penalties that
// reference an unknown match or an unassigned referee are rejected likewise.
// Penalties with out-of-range in-period timestamps are retained for counts
// but flagged TimingValid=false and counted in Rejections.TimingExcluded.
func (n *Normalizer) Normalize(raw RawSeason) (*league.Snapshot, *Rejections, error) {
	seasonID, err := core.ParseSeasonID(raw.SeasonID)
	if err != nil {
		return nil, nil, errors.ValidationError("season ID cannot be empty")
	}
	if raw.Sport == "" {
		return nil, nil, errors.ValidationError("sport cannot be empty")
	}

	rej := &Rejections{}
	snap := &league.Snapshot{SeasonID: seasonID, Sport: raw.Sport}

	mainRefByMatch := make(map[core.MatchID]core.RefereeID)
	assignedByMatch := make(map[core.MatchID]map[core.RefereeID]bool)

	for _, rm := range raw.Matches {
		match, err := n.normalizeMatch(seasonID, raw.Sport, rm)
		if err != nil {
			rej.Matches = append(rej.Matches, Rejection{Kind: "match", ID: rm.ID, Reason: err.Error()})
			n.log.Warn("rejected match %s: %v", rm.ID, err)
			continue
		}
		snap.Matches = append(snap.Matches, *match)

		main, _ := match.MainReferee()
		mainRefByMatch[match.ID] = main.ID
		assigned := make(map[core.RefereeID]bool, len(match.Referees))
		for _, a := range match.Referees {
			assigned[a.Referee.ID] = true
		}
		assignedByMatch[match.ID] = assigned
	}

	for _, rp := range raw.Penalties {
		penalty, err := n.normalizePenalty(raw.Sport, rp, mainRefByMatch, assignedByMatch)
		if err != nil {
			rej.Penalties = append(rej.Penalties, Rejection{Kind: "penalty", ID: rp.ID, Reason: err.Error()})
			n.log.Warn("rejected penalty %s: %v", rp.ID, err)
			continue
		}
		if !penalty.TimingValid {
			rej.TimingExcluded++
		}
		snap.Penalties = append(snap.Penalties, *penalty)
	}

	n.log.Info("normalized season %s: %d matches (%d rejected), %d penalties (%d rejected, %d timing-excluded)",
		seasonID, len(snap.Matches), len(rej.Matches), len(snap.Penalties), len(rej.Penalties), rej.TimingExcluded)

	return snap, rej, nil
}

func (n *Normalizer) normalizeMatch(seasonID core.SeasonID, sport league.Sport, rm RawMatch) (*league.Match, error) {
	matchID, err := core.ParseMatchID(rm.ID)
	if err != nil {
		return nil, err
	}
	if len(rm.Officials) == 0 {
		return nil, core.ErrMissingReferee
	}

	assignments := make([]league.RefereeAssignment, 0, len(rm.Officials))
	mainCount := 0
	for _, o := range rm.Officials {
		refID, err := core.ParseRefereeID(o.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: official without ID", core.ErrDataIncomplete)
		}
		role := league.RoleAssistant
		if o.Role == string(league.RoleMain) {
			role = league.RoleMain
			mainCount++
		}
		assignments = append(assignments, league.RefereeAssignment{
			Referee: league.Referee{ID: refID, Name: o.Name},
			Role:    role,
		})
	}
	if mainCount != 1 {
		return nil, core.ErrAmbiguousMainRole
	}

	return &league.Match{
		ID:        matchID,
		SeasonID:  seasonID,
		Sport:     sport,
		Date:      core.NewTimestamp(rm.Date),
		HomeTeam:  league.Team{ID: core.TeamID(rm.HomeTeam), Name: rm.HomeTeam},
		AwayTeam:  league.Team{ID: core.TeamID(rm.AwayTeam), Name: rm.AwayTeam},
		Referees:  assignments,
		HomeScore: rm.HomeScore,
		AwayScore: rm.AwayScore,
		Venue:     rm.Venue,
	}, nil
}

func (n *Normalizer) normalizePenalty(sport league.Sport, rp RawPenalty,
	mainRefs map[core.MatchID]core.RefereeID, assigned map[core.MatchID]map[core.RefereeID]bool) (*league.Penalty, error) {

	matchID, err := core.ParseMatchID(rp.MatchID)
	if err != nil {
		return nil, fmt.Errorf("%w: penalty without match ID", core.ErrDataIncomplete)
	}
	mainRef, ok := mainRefs[matchID]
	if !ok {
		return nil, core.ErrUnknownMatch
	}

	// Penalties arriving without an explicit referee are attributed to the
	// match's main referee; explicit referees must be assigned to the match.
	refID := mainRef
	if rp.RefereeID != "" {
		refID = core.RefereeID(rp.RefereeID)
		if !assigned[matchID][refID] {
			return nil, core.ErrUnattributedPenalty
		}
	}

	period := league.Period(rp.Period)
	if !period.Valid() {
		return nil, fmt.Errorf("%w: period %d", core.ErrInvalidPeriod, rp.Period)
	}
	if rp.Minute < 0 || rp.Second < 0 || rp.Second > 59 {
		return nil, core.NewValidationError("penalty timestamp", "negative or malformed minute/second")
	}

	timeInPeriod := time.Duration(rp.Minute)*time.Minute + time.Duration(rp.Second)*time.Second
	timingValid := timeInPeriod <= n.taxonomy.PeriodLength(sport, period)

	side := league.SideAway
	if rp.IsHome {
		side = league.SideHome
	}

	return &league.Penalty{
		ID:            core.PenaltyID(rp.ID),
		MatchID:       matchID,
		RefereeID:     refID,
		Type:          n.taxonomy.Canonical(sport, rp.Label),
		OriginalLabel: rp.Label,
		Period:        period,
		TimeInPeriod:  timeInPeriod,
		Minutes:       rp.Minutes,
		Side:          side,
		Situation: league.GameSituation{
			ScoreDiff: rp.ScoreDiff,
			Strength:  normalizeStrength(rp.Strength),
		},
		TimingValid: timingValid,
	}, nil
}

func normalizeStrength(s string) league.StrengthState {
	switch s {
	case string(league.StrengthPowerPlay), "pp":
		return league.StrengthPowerPlay
	case string(league.StrengthShortHanded), "sh":
		return league.StrengthShortHanded
	default:
		return league.StrengthEven
	}
}
