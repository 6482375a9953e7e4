package ingest

import (
	"testing"
	"time"

	"refwatch/domain/league"
)

func TestCanonicalMapping(t *testing.T) {
	tax := NewTaxonomy()
	tests := []struct {
		sport league.Sport
		label string
		want  league.PenaltyType
	}{
		{league.SportHockey, "tripping", league.PenaltyTripping},
		{league.SportHockey, "High-Sticking", league.PenaltyHighSticking},
		{league.SportHockey, "  too many men  ", league.PenaltyTooManyPlayers},
		{league.SportFloorball, "hitting the stick", league.PenaltySlashing},
		{league.SportFloorball, "obstruction", league.PenaltyInterference},
		{league.SportBandy, "violent play", league.PenaltyRoughing},
		{league.SportBandy, "stick infringement", league.PenaltySlashing},
	}
	for _, tt := range tests {
		if got := tax.Canonical(tt.sport, tt.label); got != tt.want {
			t.Errorf("Canonical(%s, %q) = %s, want %s", tt.sport, tt.label, got, tt.want)
		}
	}
}

func TestCanonicalFallsBackToHockeyTable(t *testing.T) {
	tax := NewTaxonomy()
	// "slashing" is absent from the floorball table but present in hockey
	if got := tax.Canonical(league.SportFloorball, "slashing"); got != league.PenaltySlashing {
		t.Errorf("cross-sport fallback failed: got %s", got)
	}
}

func TestCanonicalUnknownLabelIsOther(t *testing.T) {
	tax := NewTaxonomy()
	if got := tax.Canonical(league.SportHockey, "quantum entanglement"); got != league.PenaltyOther {
		t.Errorf("unknown label = %s, want other", got)
	}
}

func TestPeriodLength(t *testing.T) {
	tax := NewTaxonomy()
	tests := []struct {
		sport  league.Sport
		period league.Period
		want   time.Duration
	}{
		{league.SportHockey, league.Period1, 20 * time.Minute},
		{league.SportHockey, league.PeriodOvertime, 5 * time.Minute},
		{league.SportFloorball, league.Period3, 20 * time.Minute},
		{league.SportFloorball, league.PeriodOvertime, 10 * time.Minute},
		{league.SportBandy, league.Period1, 45 * time.Minute},
	}
	for _, tt := range tests {
		if got := tax.PeriodLength(tt.sport, tt.period); got != tt.want {
			t.Errorf("PeriodLength(%s, %d) = %v, want %v", tt.sport, tt.period, got, tt.want)
		}
	}
}
