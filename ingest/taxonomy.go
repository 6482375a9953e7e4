package ingest

import (
	"strings"
	"time"

	"refwatch/domain/league"
)

// Taxonomy maps heterogeneous per-sport penalty labels into the canonical
// PenaltyType space and knows each sport's period geometry. Unknown labels
// normalize to PenaltyOther; the original label is always retained on the
// penalty for traceability.
type Taxonomy struct {
	labels map[league.Sport]map[string]league.PenaltyType
}

// NewTaxonomy returns the built-in multi-sport taxonomy
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{labels: builtinLabels}
}

// Canonical maps a sport-specific label to its canonical penalty type.
// Matching is case-insensitive and whitespace-tolerant.
func (t *Taxonomy) Canonical(sport league.Sport, label string) league.PenaltyType {
	key := strings.ToLower(strings.TrimSpace(label))
	if m, ok := t.labels[sport]; ok {
		if pt, ok := m[key]; ok {
			return pt
		}
	}
	// Labels shared across sports (English data feeds) fall through to the
	// hockey table before giving up.
	if sport != league.SportHockey {
		if pt, ok := t.labels[league.SportHockey][key]; ok {
			return pt
		}
	}
	return league.PenaltyOther
}

// PeriodLength returns the duration of a period for the sport. Timestamps
// beyond this bound invalidate a penalty's timing data.
func (t *Taxonomy) PeriodLength(sport league.Sport, period league.Period) time.Duration {
	if period == league.PeriodOvertime {
		switch sport {
		case league.SportFloorball:
			return 10 * time.Minute
		default:
			return 5 * time.Minute
		}
	}
	switch sport {
	case league.SportBandy:
		// Bandy plays two 45-minute halves; its feeds report them as periods 1-2.
		return 45 * time.Minute
	default:
		return 20 * time.Minute
	}
}

var builtinLabels = map[league.Sport]map[string]league.PenaltyType{
	league.SportHockey: {
		"tripping":                league.PenaltyTripping,
		"hooking":                 league.PenaltyHooking,
		"slashing":                league.PenaltySlashing,
		"high sticking":           league.PenaltyHighSticking,
		"high-sticking":           league.PenaltyHighSticking,
		"roughing":                league.PenaltyRoughing,
		"interference":            league.PenaltyInterference,
		"holding":                 league.PenaltyHolding,
		"holding the stick":       league.PenaltyHolding,
		"cross checking":          league.PenaltyCrossChecking,
		"cross-checking":          league.PenaltyCrossChecking,
		"delay of game":           league.PenaltyDelayOfGame,
		"delaying the game":       league.PenaltyDelayOfGame,
		"too many men":            league.PenaltyTooManyPlayers,
		"too many players":        league.PenaltyTooManyPlayers,
		"unsportsmanlike":         league.PenaltyUnsportsmanlike,
		"unsportsmanlike conduct": league.PenaltyUnsportsmanlike,
		"misconduct":              league.PenaltyMisconduct,
		"game misconduct":         league.PenaltyMisconduct,
	},
	league.SportFloorball: {
		"tripping":                  league.PenaltyTripping,
		"hooking the stick":         league.PenaltyHooking,
		"hitting the stick":         league.PenaltySlashing,
		"high stick":                league.PenaltyHighSticking,
		"illegal hit":               league.PenaltyRoughing,
		"obstruction":               league.PenaltyInterference,
		"holding":                   league.PenaltyHolding,
		"delay of game":             league.PenaltyDelayOfGame,
		"too many players":          league.PenaltyTooManyPlayers,
		"unsportsmanlike behaviour": league.PenaltyUnsportsmanlike,
	},
	league.SportBandy: {
		"tripping":           league.PenaltyTripping,
		"hooking":            league.PenaltyHooking,
		"stick infringement": league.PenaltySlashing,
		"violent play":       league.PenaltyRoughing,
		"obstruction":        league.PenaltyInterference,
		"delay of game":      league.PenaltyDelayOfGame,
		"protesting":         league.PenaltyUnsportsmanlike,
		"misconduct":         league.PenaltyMisconduct,
	},
}
