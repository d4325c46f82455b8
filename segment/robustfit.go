package segment

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/sartorproj/gosegtrend/timeseries"
)

// FitOutcome is the product of a multi-start robust fit.
type FitOutcome struct {
	Breakpoints []float64
	Converged   bool
	Residual    float64
	Eval        *Evaluation
}

// coarseGridPoints is the resolution of the deterministic k=1 seed scan.
const coarseGridPoints = 20

// randomStarts is the number of uniform random-start runs per RobustFit.
const randomStarts = 4

// RobustFit runs the position optimizer from 5+nRestarts starting
// configurations and keeps the best: one deterministic seed (for k=1, the
// best of a 20-point interior scan), four uniform random starts drawn from
// the interior 80% of the time range, and nRestarts pairs-bootstrap runs
// whose optimizer operates on resampled data.
//
// Every run's breakpoints are rescored on the original, non-resampled
// sample; the lowest-residual configuration wins. This keeps resampling
// bias out of the final comparison.
func RobustFit(s *timeseries.Sample, k, nRestarts int, rng *rand.Rand, opts OptimizeOptions) (*FitOutcome, error) {
	if k == 0 {
		ev, err := Evaluate(s, nil, EvalOptions{Continuity: opts.Continuity, MinSegmentSize: opts.MinSegmentSize})
		if err != nil {
			return nil, err
		}
		return &FitOutcome{Breakpoints: []float64{}, Converged: true, Residual: ev.Residual, Eval: ev}, nil
	}

	eval := EvalOptions{Continuity: opts.Continuity, MinSegmentSize: opts.MinSegmentSize}
	tmin, tmax := s.MinTime(), s.MaxTime()
	span := tmax - tmin

	var best *FitOutcome
	consider := func(res *OptimizeResult) {
		ev, err := Evaluate(s, res.Breakpoints, eval)
		if err != nil {
			return
		}
		if best == nil || ev.Residual < best.Residual {
			best = &FitOutcome{
				Breakpoints: append([]float64(nil), res.Breakpoints...),
				Converged:   res.Converged,
				Residual:    ev.Residual,
				Eval:        ev,
			}
		}
	}

	// Deterministic seed run. For k=1 a coarse interior scan picks the
	// starting point; otherwise even seeding stands in.
	var seed []float64
	if k == 1 {
		bestPos, bestCost := math.NaN(), math.Inf(1)
		for g := 1; g <= coarseGridPoints; g++ {
			pos := tmin + span*float64(g)/float64(coarseGridPoints+1)
			ev, err := Evaluate(s, []float64{pos}, eval)
			if err != nil {
				continue
			}
			if ev.Residual < bestCost {
				bestCost = ev.Residual
				bestPos = pos
			}
		}
		if !math.IsNaN(bestPos) {
			seed = []float64{bestPos}
		}
	}
	if res, err := Optimize(s, k, seed, opts); err == nil {
		consider(res)
	}

	// Random starts uniform within the interior 80% of the range.
	for r := 0; r < randomStarts; r++ {
		start := make([]float64, k)
		for i := range start {
			start[i] = tmin + span*(0.1+0.8*rng.Float64())
		}
		sort.Float64s(start)
		if !strictlyIncreasing(start) {
			continue
		}
		if res, err := Optimize(s, k, start, opts); err == nil {
			consider(res)
		}
	}

	// Pairs-bootstrap runs: the optimizer converges on resampled data,
	// unconstrained by the original configuration.
	for r := 0; r < nRestarts; r++ {
		rs := s.Resample(rng)
		res, err := Optimize(rs, k, nil, opts)
		if err != nil {
			continue
		}
		consider(res)
	}

	if best == nil {
		return nil, ErrDegenerate
	}
	return best, nil
}

func strictlyIncreasing(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}
