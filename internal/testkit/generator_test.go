package testkit

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	a := NewSeasonGenerator(cfg).Generate()
	b := NewSeasonGenerator(cfg).Generate()

	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	if !bytes.Equal(aJSON, bJSON) {
		t.Error("same seed must generate identical seasons")
	}
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	a := NewSeasonGenerator(cfg).Generate()
	cfg.Seed = 99
	b := NewSeasonGenerator(cfg).Generate()

	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	if bytes.Equal(aJSON, bJSON) {
		t.Error("different seeds should generate different seasons")
	}
}

func TestGenerateShape(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	season := NewSeasonGenerator(cfg).Generate()

	wantMatches := cfg.MatchesPerRef * len(cfg.Archetypes)
	if len(season.Matches) != wantMatches {
		t.Errorf("matches = %d, want %d", len(season.Matches), wantMatches)
	}
	if len(season.Penalties) == 0 {
		t.Fatal("expected penalties")
	}

	ids := make(map[string]bool)
	for _, m := range season.Matches {
		if ids[m.ID] {
			t.Errorf("duplicate match ID %s", m.ID)
		}
		ids[m.ID] = true
		if len(m.Officials) == 0 {
			t.Errorf("match %s has no officials", m.ID)
		}
	}
	for _, p := range season.Penalties {
		if !ids[p.MatchID] {
			t.Errorf("penalty %s references unknown match %s", p.ID, p.MatchID)
		}
		if p.Period < 1 || p.Period > 3 {
			t.Errorf("penalty %s has period %d", p.ID, p.Period)
		}
	}
}

func TestExampleSeasonInvariants(t *testing.T) {
	season := ExampleSeason()
	if len(season.Matches) != 4 {
		t.Errorf("matches = %d, want 4", len(season.Matches))
	}
	if len(season.Penalties) != 10 {
		t.Errorf("penalties = %d, want 10", len(season.Penalties))
	}

	home, final := 0, 0
	for _, p := range season.Penalties {
		if p.IsHome {
			home++
		}
		if p.Period == 3 {
			final++
		}
	}
	if home != 6 {
		t.Errorf("home penalties = %d, want 6", home)
	}
	if final != 6 {
		t.Errorf("final period penalties = %d, want 6", final)
	}
}
