package testkit

import (
	"fmt"
	"time"

	"refwatch/domain/league"
	"refwatch/ingest"
)

// ExampleSeason returns a small fixed season: one referee over four matches
// with ten penalties, six on the home side and six of ten in the final
// period. Under default thresholds it produces exactly one observation, a
// MEDIUM timing pattern.
func ExampleSeason() ingest.RawSeason {
	date := time.Date(2025, 10, 4, 19, 0, 0, 0, time.UTC)

	matches := make([]ingest.RawMatch, 0, 4)
	for i := 1; i <= 4; i++ {
		matches = append(matches, ingest.RawMatch{
			ID:       fmt.Sprintf("EX-M%d", i),
			Date:     date.AddDate(0, 0, 7*i),
			HomeTeam: "Falcons",
			AwayTeam: "Wolves",
			Officials: []ingest.RawOfficial{
				{ID: "EX-REF", Name: "Example Referee", Role: "main"},
			},
		})
	}

	// period, minute, isHome per penalty; 6 final-period, 6 home
	spec := []struct {
		match  int
		period int
		minute int
		isHome bool
	}{
		{1, 1, 5, true},
		{1, 3, 12, false},
		{1, 3, 18, true},
		{2, 2, 8, true},
		{2, 3, 15, false},
		{3, 1, 3, true},
		{3, 3, 10, true},
		{3, 3, 19, false},
		{4, 2, 11, true},
		{4, 3, 17, false},
	}

	labels := []string{"tripping", "hooking", "slashing", "roughing", "interference",
		"tripping", "hooking", "holding", "roughing", "slashing"}

	penalties := make([]ingest.RawPenalty, 0, len(spec))
	for i, s := range spec {
		penalties = append(penalties, ingest.RawPenalty{
			ID:       fmt.Sprintf("EX-P%d", i+1),
			MatchID:  fmt.Sprintf("EX-M%d", s.match),
			Label:    labels[i],
			Period:   s.period,
			Minute:   s.minute,
			Second:   30,
			Minutes:  2,
			IsHome:   s.isHome,
			Strength: "even",
		})
	}

	return ingest.RawSeason{
		SeasonID:  "2025-example",
		Sport:     league.SportHockey,
		Matches:   matches,
		Penalties: penalties,
	}
}
