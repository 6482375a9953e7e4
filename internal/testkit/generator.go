package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"refwatch/domain/league"
	"refwatch/ingest"
)

// RefereeArchetype shapes the synthetic penalty behavior of one generated
// referee. Rates are per-match expectations; shares are probabilities.
type RefereeArchetype struct {
	Name             string
	PenaltyRate      float64 // expected penalties per match
	HomeShare        float64 // probability a penalty falls on the home side
	FinalPeriodShare float64 // probability a regulation penalty lands in the final period
	FavoriteType     league.PenaltyType
	FavoriteShare    float64 // probability a penalty takes the favorite type
}

// Baseline archetypes: one neutral profile plus one per detection rule
var (
	NeutralRef  = RefereeArchetype{Name: "Neutral", PenaltyRate: 4.0, HomeShare: 0.50, FinalPeriodShare: 0.33, FavoriteType: league.PenaltyTripping, FavoriteShare: 0.15}
	StrictRef   = RefereeArchetype{Name: "Strict", PenaltyRate: 9.0, HomeShare: 0.50, FinalPeriodShare: 0.33, FavoriteType: league.PenaltyTripping, FavoriteShare: 0.15}
	HomerRef    = RefereeArchetype{Name: "Homer", PenaltyRate: 4.0, HomeShare: 0.85, FinalPeriodShare: 0.33, FavoriteType: league.PenaltyTripping, FavoriteShare: 0.15}
	LateGameRef = RefereeArchetype{Name: "LateGame", PenaltyRate: 4.0, HomeShare: 0.50, FinalPeriodShare: 0.80, FavoriteType: league.PenaltyTripping, FavoriteShare: 0.15}
	OneTrickRef = RefereeArchetype{Name: "OneTrick", PenaltyRate: 4.0, HomeShare: 0.50, FinalPeriodShare: 0.33, FavoriteType: league.PenaltyHooking, FavoriteShare: 0.75}
)

// GeneratorConfig configures the synthetic season generator
type GeneratorConfig struct {
	SeasonID      string
	Sport         league.Sport
	MatchesPerRef int
	Archetypes    []RefereeArchetype
	Seed          int64
}

// DefaultGeneratorConfig returns a five-referee season exercising every rule
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		SeasonID:      "2025-synthetic",
		Sport:         league.SportHockey,
		MatchesPerRef: 20,
		Archetypes:    []RefereeArchetype{NeutralRef, StrictRef, HomerRef, LateGameRef, OneTrickRef},
		Seed:          42,
	}
}

// SeasonGenerator produces deterministic synthetic seasons. The same seed
// always yields byte-identical raw input.
type SeasonGenerator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewSeasonGenerator creates a generator with its own seeded RNG
func NewSeasonGenerator(cfg GeneratorConfig) *SeasonGenerator {
	return &SeasonGenerator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Generate produces the full raw season
func (g *SeasonGenerator) Generate() ingest.RawSeason {
	season := ingest.RawSeason{
		SeasonID: g.cfg.SeasonID,
		Sport:    g.cfg.Sport,
	}

	baseDate := time.Date(2025, 9, 1, 18, 30, 0, 0, time.UTC)
	matchNum := 0
	penaltyNum := 0

	for refIdx, arch := range g.cfg.Archetypes {
		refID := fmt.Sprintf("REF-%03d", refIdx+1)
		for i := 0; i < g.cfg.MatchesPerRef; i++ {
			matchNum++
			matchID := fmt.Sprintf("M-%04d", matchNum)
			season.Matches = append(season.Matches, ingest.RawMatch{
				ID:       matchID,
				Date:     baseDate.AddDate(0, 0, matchNum),
				HomeTeam: fmt.Sprintf("Team-%d", g.rng.Intn(12)+1),
				AwayTeam: fmt.Sprintf("Team-%d", g.rng.Intn(12)+13),
				Officials: []ingest.RawOfficial{
					{ID: refID, Name: arch.Name + " " + refID, Role: "main"},
					{ID: refID + "-A", Name: "Assistant " + refID, Role: "assistant"},
				},
			})

			for _, p := range g.matchPenalties(arch, matchID) {
				penaltyNum++
				p.ID = fmt.Sprintf("P-%05d", penaltyNum)
				season.Penalties = append(season.Penalties, p)
			}
		}
	}
	return season
}

func (g *SeasonGenerator) matchPenalties(arch RefereeArchetype, matchID string) []ingest.RawPenalty {
	count := g.poisson(arch.PenaltyRate)
	penalties := make([]ingest.RawPenalty, 0, count)
	for i := 0; i < count; i++ {
		period := g.pickPeriod(arch.FinalPeriodShare)
		penalties = append(penalties, ingest.RawPenalty{
			MatchID:   matchID,
			Label:     g.pickLabel(arch),
			Period:    period,
			Minute:    g.rng.Intn(20),
			Second:    g.rng.Intn(60),
			Minutes:   2,
			IsHome:    g.rng.Float64() < arch.HomeShare,
			ScoreDiff: g.rng.Intn(7) - 3,
			Strength:  "even",
		})
	}
	return penalties
}

func (g *SeasonGenerator) pickPeriod(finalShare float64) int {
	if g.rng.Float64() < finalShare {
		return 3
	}
	return g.rng.Intn(2) + 1
}

func (g *SeasonGenerator) pickLabel(arch RefereeArchetype) string {
	if g.rng.Float64() < arch.FavoriteShare {
		return string(arch.FavoriteType)
	}
	pool := []string{"tripping", "hooking", "slashing", "roughing", "interference", "holding"}
	return pool[g.rng.Intn(len(pool))]
}

// poisson draws via inversion; rates here are small so the loop is short
func (g *SeasonGenerator) poisson(lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
