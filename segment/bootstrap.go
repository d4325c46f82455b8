package segment

import (
	"errors"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gosegtrend/timeseries"
)

// BootstrapResult holds the empirical breakpoint distribution together
// with the health counters of the run.
type BootstrapResult struct {
	// Samples has shape [nBootstrap][k]; column j corresponds to
	// breakpoint j of the point estimate by construction and is never
	// re-sorted across rows.
	Samples [][]float64
	// Fallbacks counts trials whose optimizer could not run; their row is
	// the point estimate itself. A large count deflates the CI width and
	// should make the caller distrust the intervals.
	Fallbacks int
	// Unconverged counts trials whose refit hit MaxIter without meeting
	// the movement tolerance.
	Unconverged int
}

// Bootstrap produces the empirical distribution of the breakpoint
// positions: nBootstrap pairs-bootstrap resamples, each re-optimized
// warm-started at the point estimate rather than searched globally. The
// warm start assumes the bootstrap optimum lies near the population
// optimum, trading a little fidelity for a large amount of work.
func Bootstrap(s *timeseries.Sample, pointEstimate []float64, nBootstrap int, rng *rand.Rand, opts OptimizeOptions) (*BootstrapResult, error) {
	k := len(pointEstimate)
	if k == 0 {
		return nil, errors.New("segment: bootstrap needs at least one breakpoint")
	}
	if nBootstrap < 1 {
		return nil, errors.New("segment: nBootstrap must be positive")
	}

	br := &BootstrapResult{Samples: make([][]float64, nBootstrap)}
	for trial := 0; trial < nBootstrap; trial++ {
		rs := s.Resample(rng)
		res, err := Optimize(rs, k, pointEstimate, opts)
		if err != nil {
			br.Samples[trial] = append([]float64(nil), pointEstimate...)
			br.Fallbacks++
			continue
		}
		if !res.Converged {
			br.Unconverged++
		}
		br.Samples[trial] = res.Breakpoints
	}
	return br, nil
}

// PercentileCIs summarizes a bootstrap matrix into two-sided percentile
// confidence intervals at significance alpha, one per breakpoint column.
func PercentileCIs(samples [][]float64, alpha float64) [][2]float64 {
	if len(samples) == 0 {
		return nil
	}
	k := len(samples[0])
	cis := make([][2]float64, k)
	column := make([]float64, len(samples))
	for j := 0; j < k; j++ {
		for i, row := range samples {
			column[i] = row[j]
		}
		sort.Float64s(column)
		cis[j][0] = stat.Quantile(alpha/2, stat.Empirical, column, nil)
		cis[j][1] = stat.Quantile(1-alpha/2, stat.Empirical, column, nil)
	}
	return cis
}

// windowFraction returns the fraction of all bootstrap positions falling
// inside [start, end].
func windowFraction(samples [][]float64, start, end float64) float64 {
	total, hits := 0, 0
	for _, row := range samples {
		for _, b := range row {
			total++
			if b >= start && b <= end {
				hits++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
