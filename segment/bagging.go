package segment

import (
	"errors"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gosegtrend/timeseries"
)

// BaggedFit computes a bootstrap-aggregated point estimate of the
// breakpoint positions: one global-search fit provides the warm start,
// each of nBootstrap resamples is re-optimized from it, and every
// breakpoint column is aggregated independently (median by default).
// The aggregated estimate is more stable than a single restart run at the
// cost of nBootstrap extra optimizations.
//
// The returned flag reports whether the warm start and every bootstrap
// refit converged within their iteration budgets.
func BaggedFit(s *timeseries.Sample, k, nRestarts, nBootstrap int, agg Aggregation, rng *rand.Rand, opts OptimizeOptions) ([]float64, bool, error) {
	if k < 1 {
		return nil, false, errors.New("segment: bagging needs at least one breakpoint")
	}
	if nBootstrap < 1 {
		return nil, false, errors.New("segment: bagging NBootstrap must be positive")
	}

	warm, err := RobustFit(s, k, nRestarts, rng, opts)
	if err != nil {
		return nil, false, err
	}

	br, err := Bootstrap(s, warm.Breakpoints, nBootstrap, rng, opts)
	if err != nil {
		return nil, false, err
	}
	converged := warm.Converged && br.Unconverged == 0 && br.Fallbacks == 0

	bps := make([]float64, k)
	column := make([]float64, len(br.Samples))
	for j := 0; j < k; j++ {
		for i, row := range br.Samples {
			column[i] = row[j]
		}
		switch agg {
		case AggMean:
			bps[j] = stat.Mean(column, nil)
		default:
			sort.Float64s(column)
			bps[j] = stat.Quantile(0.5, stat.Empirical, column, nil)
		}
	}
	if !strictlyIncreasing(bps) {
		// Columns collapsed onto each other; fall back to the warm start.
		return warm.Breakpoints, converged, nil
	}
	return bps, converged, nil
}
