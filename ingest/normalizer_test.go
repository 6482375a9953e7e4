package ingest

import (
	"testing"
	"time"

	"refwatch/domain/core"
	"refwatch/domain/league"
)

func rawMatch(id, refID string) RawMatch {
	return RawMatch{
		ID:       id,
		Date:     time.Date(2025, 10, 1, 19, 0, 0, 0, time.UTC),
		HomeTeam: "Home",
		AwayTeam: "Away",
		Officials: []RawOfficial{
			{ID: refID, Name: "Main " + refID, Role: "main"},
		},
	}
}

func TestNormalizeHappyPath(t *testing.T) {
	raw := RawSeason{
		SeasonID: "2025",
		Sport:    league.SportHockey,
		Matches:  []RawMatch{rawMatch("M1", "R1")},
		Penalties: []RawPenalty{
			{ID: "P1", MatchID: "M1", Label: "tripping", Period: 2, Minute: 10, Second: 30, Minutes: 2, IsHome: true},
		},
	}

	snap, rej, err := NewNormalizer().Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(snap.Matches) != 1 || len(snap.Penalties) != 1 {
		t.Fatalf("got %d matches, %d penalties", len(snap.Matches), len(snap.Penalties))
	}
	if len(rej.Matches) != 0 || len(rej.Penalties) != 0 {
		t.Errorf("unexpected rejections: %+v", rej)
	}

	p := snap.Penalties[0]
	if p.RefereeID != core.RefereeID("R1") {
		t.Errorf("penalty without explicit referee must attribute to main referee, got %s", p.RefereeID)
	}
	if p.Type != league.PenaltyTripping {
		t.Errorf("type = %s, want tripping", p.Type)
	}
	if !p.TimingValid {
		t.Error("in-range timestamp should be timing-valid")
	}
}

func TestNormalizeRejectsMatchWithoutReferee(t *testing.T) {
	m := rawMatch("M1", "R1")
	m.Officials = nil
	raw := RawSeason{SeasonID: "2025", Sport: league.SportHockey,
		Matches: []RawMatch{m, rawMatch("M2", "R2")}}

	snap, rej, err := NewNormalizer().Normalize(raw)
	if err != nil {
		t.Fatalf("record-scoped problem must not abort the batch: %v", err)
	}
	if len(snap.Matches) != 1 {
		t.Errorf("expected surviving match, got %d", len(snap.Matches))
	}
	if len(rej.Matches) != 1 {
		t.Fatalf("expected 1 match rejection, got %d", len(rej.Matches))
	}
	if rej.Matches[0].ID != "M1" {
		t.Errorf("rejected wrong match: %s", rej.Matches[0].ID)
	}
}

func TestNormalizeRejectsAmbiguousMainRole(t *testing.T) {
	m := rawMatch("M1", "R1")
	m.Officials = append(m.Officials, RawOfficial{ID: "R2", Name: "Second", Role: "main"})
	raw := RawSeason{SeasonID: "2025", Sport: league.SportHockey, Matches: []RawMatch{m}}

	snap, rej, err := NewNormalizer().Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Matches) != 0 || len(rej.Matches) != 1 {
		t.Errorf("two main referees must reject the match: %d kept, %d rejected",
			len(snap.Matches), len(rej.Matches))
	}
}

func TestNormalizeRejectsPenaltyEdgeCases(t *testing.T) {
	raw := RawSeason{
		SeasonID: "2025",
		Sport:    league.SportHockey,
		Matches:  []RawMatch{rawMatch("M1", "R1")},
		Penalties: []RawPenalty{
			{ID: "P1", MatchID: "NOPE", Label: "tripping", Period: 1, Minute: 5},
			{ID: "P2", MatchID: "M1", RefereeID: "STRANGER", Label: "tripping", Period: 1, Minute: 5},
			{ID: "P3", MatchID: "M1", Label: "tripping", Period: 7, Minute: 5},
			{ID: "P4", MatchID: "M1", Label: "tripping", Period: 1, Minute: -2},
			{ID: "P5", MatchID: "M1", Label: "tripping", Period: 1, Minute: 5, Second: 99},
		},
	}

	snap, rej, err := NewNormalizer().Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Penalties) != 0 {
		t.Errorf("all penalties should be rejected, %d kept", len(snap.Penalties))
	}
	if len(rej.Penalties) != 5 {
		t.Errorf("expected 5 penalty rejections, got %d: %+v", len(rej.Penalties), rej.Penalties)
	}
}

func TestNormalizeFlagsOutOfRangeTimestamp(t *testing.T) {
	raw := RawSeason{
		SeasonID: "2025",
		Sport:    league.SportHockey,
		Matches:  []RawMatch{rawMatch("M1", "R1")},
		Penalties: []RawPenalty{
			// minute 25 exceeds a 20-minute hockey period
			{ID: "P1", MatchID: "M1", Label: "hooking", Period: 1, Minute: 25},
		},
	}

	snap, rej, err := NewNormalizer().Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Penalties) != 1 {
		t.Fatal("out-of-range timestamp must keep the penalty for counts")
	}
	if snap.Penalties[0].TimingValid {
		t.Error("out-of-range timestamp must clear TimingValid")
	}
	if rej.TimingExcluded != 1 {
		t.Errorf("TimingExcluded = %d, want 1", rej.TimingExcluded)
	}
}

func TestNormalizeFailsOnMissingSeason(t *testing.T) {
	if _, _, err := NewNormalizer().Normalize(RawSeason{Sport: league.SportHockey}); err == nil {
		t.Error("empty season ID must fail")
	}
	if _, _, err := NewNormalizer().Normalize(RawSeason{SeasonID: "2025"}); err == nil {
		t.Error("empty sport must fail")
	}
}
