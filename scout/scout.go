package scout

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/sartorproj/gosegtrend/regression"
	"github.com/sartorproj/gosegtrend/segment"
	"github.com/sartorproj/gosegtrend/senslope"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// Config holds the options for the differential-evolution search.
type Config struct {
	MinSegmentSize int     // fewest observations per segment (default 10)
	PopSize        int     // population size (default max(30, 15*k))
	MaxGenerations int     // generation budget (default 200)
	F              float64 // differential weight (default 0.8)
	CR             float64 // crossover probability (default 0.9)
	Tol            float64 // stagnation tolerance on the best cost (default 1e-6)
	CostOLS        bool    // use plain OLS segment costs instead of Huber
	Alpha          float64 // significance level for polished CIs (default 0.05)
	Seed           uint64
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MinSegmentSize: 10,
		MaxGenerations: 200,
		F:              0.8,
		CR:             0.9,
		Tol:            1e-6,
		Alpha:          0.05,
	}
}

// Result holds the best segmentation found by the search.
type Result struct {
	Breakpoints []float64
	Segments    []segment.Segment // polished robust per-segment estimates
	Cost        float64           // search objective at the optimum
	Generations int
}

// stagnationLimit is how many generations without improvement beyond Tol
// end the search early.
const stagnationLimit = 20

// Fit searches for k breakpoints on (t, y) with differential evolution:
// real-valued candidate positions, discretized to split indices inside the
// cost function, rejected outright when any segment falls under
// MinSegmentSize, and otherwise costed as the sum of absolute residuals of
// per-segment Huber fits (or OLS fits with CostOLS).
//
// After convergence every segment is re-estimated with the rank-based
// robust fitter; the search objective and the reported statistics are
// deliberately decoupled.
func Fit(t, y []float64, k int, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	n := len(t)
	if len(y) != n {
		return nil, errors.New("scout: t and y must have the same length")
	}
	if k < 1 {
		return nil, errors.New("scout: k must be at least 1")
	}
	if cfg.MinSegmentSize < 2 {
		return nil, errors.New("scout: MinSegmentSize must be at least 2")
	}
	if n < (k+1)*cfg.MinSegmentSize {
		return nil, errors.New("scout: too few observations for requested breakpoints")
	}
	if !sort.Float64sAreSorted(t) {
		return nil, errors.New("scout: t must be sorted ascending")
	}

	popSize := cfg.PopSize
	if popSize == 0 {
		popSize = 15 * k
		if popSize < 30 {
			popSize = 30
		}
	}
	if popSize < 4 {
		return nil, errors.New("scout: PopSize must be at least 4")
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xc2b2ae3d27d4eb4f))
	tmin, tmax := t[0], t[n-1]
	span := tmax - tmin

	cost := func(pos []float64) float64 {
		return segmentCost(t, y, pos, cfg.MinSegmentSize, cfg.CostOLS)
	}

	// Initialize the population uniformly over the time range.
	pop := make([][]float64, popSize)
	costs := make([]float64, popSize)
	for i := range pop {
		pop[i] = make([]float64, k)
		for j := range pop[i] {
			pop[i][j] = tmin + span*rng.Float64()
		}
		costs[i] = cost(pop[i])
	}

	bestIdx := 0
	for i, c := range costs {
		if c < costs[bestIdx] {
			bestIdx = i
		}
	}

	trial := make([]float64, k)
	gen := 0
	stale := 0
	for ; gen < cfg.MaxGenerations && stale < stagnationLimit; gen++ {
		prevBest := costs[bestIdx]
		for i := range pop {
			a, b, c := distinctTriple(rng, popSize, i)
			jrand := rng.IntN(k)
			for j := 0; j < k; j++ {
				if j == jrand || rng.Float64() < cfg.CR {
					v := pop[a][j] + cfg.F*(pop[b][j]-pop[c][j])
					if v < tmin {
						v = tmin
					} else if v > tmax {
						v = tmax
					}
					trial[j] = v
				} else {
					trial[j] = pop[i][j]
				}
			}
			if tc := cost(trial); tc <= costs[i] {
				copy(pop[i], trial)
				costs[i] = tc
				if tc < costs[bestIdx] {
					bestIdx = i
				}
			}
		}
		if prevBest-costs[bestIdx] < cfg.Tol {
			stale++
		} else {
			stale = 0
		}
	}
	if math.IsInf(costs[bestIdx], 1) {
		return nil, errors.New("scout: no feasible segmentation found")
	}

	best := append([]float64(nil), pop[bestIdx]...)
	sort.Float64s(best)
	splits := splitIndices(t, best)

	res := &Result{
		Breakpoints: best,
		Cost:        costs[bestIdx],
		Generations: gen,
	}
	alpha := cfg.Alpha
	if alpha == 0 {
		alpha = 0.05
	}
	start := 0
	for i := 0; i <= k; i++ {
		end := n
		if i < k {
			end = splits[i]
		}
		sub, err := timeseries.New(t[start:end], y[start:end])
		if err != nil {
			return nil, err
		}
		fit, err := senslope.FitSample(sub, alpha)
		if err != nil {
			return nil, err
		}
		lo := tmin
		if i > 0 {
			lo = best[i-1]
		}
		hi := tmax
		if i < k {
			hi = best[i]
		}
		res.Segments = append(res.Segments, segment.Segment{
			Start:     lo,
			End:       hi,
			Slope:     fit.Slope,
			Intercept: fit.Intercept,
			LowerCI:   fit.LowerCI,
			UpperCI:   fit.UpperCI,
			N:         fit.N,
		})
		start = end
	}
	return res, nil
}

// segmentCost discretizes the candidate positions to split indices and
// sums per-segment regression residuals. Undersized segments make the
// candidate infeasible.
func segmentCost(t, y, pos []float64, minSize int, useOLS bool) float64 {
	sorted := append([]float64(nil), pos...)
	sort.Float64s(sorted)
	splits := splitIndices(t, sorted)

	n := len(t)
	total := 0.0
	start := 0
	for i := 0; i <= len(splits); i++ {
		end := n
		if i < len(splits) {
			end = splits[i]
		}
		if end-start < minSize {
			return math.Inf(1)
		}
		var (
			fit *regression.LinearFit
			err error
		)
		if useOLS {
			fit, err = regression.OLS(t[start:end], y[start:end])
		} else {
			fit, err = regression.Huber(t[start:end], y[start:end])
		}
		if err != nil {
			return math.Inf(1)
		}
		total += fit.AbsResidual
		start = end
	}
	return total
}

// splitIndices maps sorted breakpoint positions to the index of the first
// observation of each right-hand segment.
func splitIndices(t, sorted []float64) []int {
	splits := make([]int, len(sorted))
	for i, b := range sorted {
		splits[i] = sort.SearchFloat64s(t, b)
	}
	return splits
}

// distinctTriple draws three distinct population indices, all different
// from i.
func distinctTriple(rng *rand.Rand, popSize, i int) (int, int, int) {
	pick := func(exclude ...int) int {
		for {
			v := rng.IntN(popSize)
			ok := v != i
			for _, e := range exclude {
				if v == e {
					ok = false
					break
				}
			}
			if ok {
				return v
			}
		}
	}
	a := pick()
	b := pick(a)
	c := pick(a, b)
	return a, b, c
}
