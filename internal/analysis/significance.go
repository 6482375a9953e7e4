package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Evidence p-values are advisory context attached to observations. They never
// gate detection; the configured thresholds do.

// proportionPValue runs a two-sided one-sample z-test of an observed
// proportion against an expected proportion. Returns 1 when the sample
// cannot support a test.
func proportionPValue(successes, trials int, expected float64) float64 {
	if trials == 0 || expected <= 0 || expected >= 1 {
		return 1
	}
	se := math.Sqrt(expected * (1 - expected) / float64(trials))
	if se == 0 {
		return 1
	}
	observed := float64(successes) / float64(trials)
	z := (observed - expected) / se

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * normal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}
	return p
}

// rateDeviationPValue tests a referee's total penalty count against the
// expectation under the league's per-match rate, using the normal
// approximation to the Poisson. Returns 1 when the expectation is zero.
func rateDeviationPValue(observed int, matches int, leagueRate float64) float64 {
	expected := leagueRate * float64(matches)
	if expected <= 0 {
		return 1
	}
	z := (float64(observed) - expected) / math.Sqrt(expected)

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * normal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}
	return p
}

// chiSquarePValue converts a chi-square statistic with the given degrees of
// freedom to its upper-tail p-value.
func chiSquarePValue(statistic float64, df int) float64 {
	if df < 1 || statistic <= 0 {
		return 1
	}
	dist := distuv.ChiSquared{K: float64(df)}
	return 1 - dist.CDF(statistic)
}

// typeGoodnessOfFit computes the chi-square statistic of a referee's penalty
// type distribution against the league's type shares. Cells with zero league
// share are skipped; df is the number of tested cells minus one.
func typeGoodnessOfFit(counts map[string]int, total int, leagueShares map[string]float64) (statistic float64, df int) {
	if total == 0 {
		return 0, 0
	}
	cells := 0
	for key, share := range leagueShares {
		if share <= 0 {
			continue
		}
		expected := share * float64(total)
		observed := float64(counts[key])
		statistic += (observed - expected) * (observed - expected) / expected
		cells++
	}
	if cells < 2 {
		return 0, 0
	}
	return statistic, cells - 1
}
