package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"refwatch/domain/bias"
	"refwatch/domain/core"
	"refwatch/domain/league"
	"refwatch/internal"
)

// Processor computes per-referee aggregates and the league baseline from a
// normalized snapshot. It owns RefereeMetrics exclusively during a pass;
// after Process returns, the aggregates are treated as immutable.
type Processor struct {
	log *internal.Logger
}

// NewProcessor creates a statistical processor
func NewProcessor() *Processor {
	return &Processor{log: internal.DefaultLogger.WithPrefix("processor")}
}

// Process runs a single batch pass over one league-season snapshot.
// Referees with zero matches never appear in the output map, so every
// AvgPenalties value is defined without runtime guards. Matches with zero
// penalties still count toward their main referee's match total and toward
// the league per-match distribution.
func (p *Processor) Process(snap *league.Snapshot) (map[core.RefereeID]*bias.RefereeMetrics, bias.LeagueBaseline) {
	metrics := make(map[core.RefereeID]*bias.RefereeMetrics)
	baseline := bias.LeagueBaseline{TypeShares: make(map[league.PenaltyType]float64)}
	if snap.Empty() {
		return metrics, baseline
	}

	perMatchCounts := make(map[core.MatchID]int, len(snap.Matches))
	for i := range snap.Matches {
		m := &snap.Matches[i]
		main, ok := m.MainReferee()
		if !ok {
			// Normalizer guarantees main-referee presence; skip defensively.
			continue
		}
		agg, exists := metrics[main.ID]
		if !exists {
			agg = bias.NewRefereeMetrics(main)
			metrics[main.ID] = agg
		}
		agg.Matches++
		perMatchCounts[m.ID] = 0
	}

	var leagueHome, leagueFinal, leagueTimingValid int
	typeCounts := make(map[league.PenaltyType]int)

	for i := range snap.Penalties {
		pen := &snap.Penalties[i]
		agg, ok := metrics[pen.RefereeID]
		if !ok {
			// Penalty attributed to a referee who mains no surviving match.
			continue
		}

		agg.Penalties++
		agg.PenaltyMinutes += pen.Minutes
		agg.TypeCounts[pen.Type]++
		agg.SituationCounts[pen.Situation.Bucket()]++
		if pen.Side == league.SideHome {
			agg.HomePenalties++
			leagueHome++
		} else {
			agg.AwayPenalties++
		}

		if pen.Period == league.PeriodOvertime {
			agg.OvertimePenalties++
		} else if pen.TimingValid {
			agg.TimingValidPenalties++
			leagueTimingValid++
			if pen.Period == league.FinalRegulationPeriod {
				agg.FinalPeriodPenalties++
				leagueFinal++
			}
		}

		typeCounts[pen.Type]++
		perMatchCounts[pen.MatchID]++
	}

	for _, agg := range metrics {
		agg.Finalize()
	}

	p.finalizeBaseline(&baseline, perMatchCounts, typeCounts, leagueHome, leagueFinal, leagueTimingValid, len(snap.Penalties))
	p.log.Debug("processed %d matches, %d penalties across %d referees", len(snap.Matches), len(snap.Penalties), len(metrics))

	return metrics, baseline
}

func (p *Processor) finalizeBaseline(b *bias.LeagueBaseline, perMatch map[core.MatchID]int,
	typeCounts map[league.PenaltyType]int, home, final, timingValid, total int) {

	b.MatchCount = len(perMatch)
	b.PenaltyCount = total
	if b.MatchCount > 0 {
		b.AvgPenaltiesPerMatch = float64(total) / float64(b.MatchCount)
	}
	if total > 0 {
		b.HomeShare = float64(home) / float64(total)
		b.HomeBias = 100 * float64(home-(total-home)) / float64(total)
	}
	if timingValid > 0 {
		b.FinalPeriodShare = float64(final) / float64(timingValid)
	}
	for t, c := range typeCounts {
		b.TypeShares[t] = float64(c) / float64(total)
	}

	counts := make([]float64, 0, len(perMatch))
	for _, c := range perMatch {
		counts = append(counts, float64(c))
	}
	sort.Float64s(counts)
	if len(counts) == 0 {
		return
	}

	// Distribution summary for reporting; errors only occur on empty input.
	mean, _ := stats.Mean(counts)
	median, _ := stats.Median(counts)
	stdDev, _ := stats.StandardDeviation(counts)
	p25, _ := stats.Percentile(counts, 25)
	p75, _ := stats.Percentile(counts, 75)
	b.PerMatch = bias.PerMatchStats{Mean: mean, Median: median, StdDev: stdDev, P25: p25, P75: p75}
}

// SortedRefereeIDs returns the metric keys in deterministic order
func SortedRefereeIDs(metrics map[core.RefereeID]*bias.RefereeMetrics) []core.RefereeID {
	ids := make([]core.RefereeID, 0, len(metrics))
	for id := range metrics {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
