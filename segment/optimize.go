package segment

import (
	"errors"
	"math"
	"sort"

	"github.com/sartorproj/gosegtrend/timeseries"
)

// OptimizeOptions configures the coordinate-descent position optimizer.
type OptimizeOptions struct {
	MaxIter        int
	Tol            float64
	MinSegmentSize int
	Continuity     bool
}

// OptimizeResult holds the refined breakpoint positions.
type OptimizeResult struct {
	Breakpoints []float64
	Converged   bool
}

// gridPoints is the resolution of each grid-search pass.
const gridPoints = 10

// gridPasses is the number of successive narrowing passes per breakpoint.
const gridPasses = 3

// Optimize refines k breakpoint positions by coordinate descent. Each
// breakpoint in turn is moved within the interval bounded by its
// neighbors, shrunk so both adjacent segments keep MinSegmentSize
// observations, using three successive 10-point grid passes that narrow
// around the best point. Sweeps repeat until the largest single movement
// falls below Tol or MaxIter sweeps elapse, in which case the best
// positions found so far are returned with Converged=false.
//
// When initial is nil the breakpoints are seeded evenly across the time
// range. k=0 returns an empty, converged vector.
func Optimize(s *timeseries.Sample, k int, initial []float64, opts OptimizeOptions) (*OptimizeResult, error) {
	if k < 0 {
		return nil, errors.New("segment: k must be non-negative")
	}
	if k == 0 {
		return &OptimizeResult{Breakpoints: []float64{}, Converged: true}, nil
	}
	n := s.Len()
	if opts.MinSegmentSize < 2 {
		return nil, errors.New("segment: MinSegmentSize must be at least 2")
	}
	if n < (k+1)*opts.MinSegmentSize {
		return nil, errors.New("segment: too few observations for requested breakpoints")
	}
	if opts.MaxIter < 1 || opts.Tol <= 0 {
		return nil, errors.New("segment: MaxIter and Tol must be positive")
	}

	tmin, tmax := s.MinTime(), s.MaxTime()
	bps := make([]float64, k)
	if initial == nil {
		span := tmax - tmin
		for i := 0; i < k; i++ {
			bps[i] = tmin + span*float64(i+1)/float64(k+1)
		}
	} else {
		if len(initial) != k {
			return nil, errors.New("segment: initial positions must have length k")
		}
		copy(bps, initial)
	}

	eval := EvalOptions{Continuity: opts.Continuity, MinSegmentSize: opts.MinSegmentSize}
	score := func(v []float64) float64 {
		ev, err := Evaluate(s, v, eval)
		if err != nil {
			return math.Inf(1)
		}
		return ev.Residual
	}

	work := make([]float64, k)
	for iter := 0; iter < opts.MaxIter; iter++ {
		maxMove := 0.0
		for j := 0; j < k; j++ {
			lo := tmin
			if j > 0 {
				lo = bps[j-1]
			}
			hi := tmax
			if j < k-1 {
				hi = bps[j+1]
			}
			low, high, ok := feasibleInterval(s, lo, hi, j == k-1, opts.MinSegmentSize)
			if !ok {
				continue
			}

			copy(work, bps)
			best := bps[j]
			bestCost := math.Inf(1)
			for pass := 0; pass < gridPasses; pass++ {
				step := (high - low) / float64(gridPoints-1)
				for g := 0; g < gridPoints; g++ {
					cand := low + step*float64(g)
					work[j] = cand
					if c := score(work); c < bestCost {
						bestCost = c
						best = cand
					}
				}
				if step < opts.Tol {
					break
				}
				// Narrow around the best point by one grid step.
				low = math.Max(low, best-step)
				high = math.Min(high, best+step)
			}
			if !math.IsInf(bestCost, 1) {
				if move := math.Abs(best - bps[j]); move > maxMove {
					maxMove = move
				}
				bps[j] = best
			}
		}
		if maxMove < opts.Tol {
			return &OptimizeResult{Breakpoints: bps, Converged: true}, nil
		}
	}
	return &OptimizeResult{Breakpoints: bps, Converged: false}, nil
}

// feasibleInterval shrinks the open interval (lo, hi) so that a breakpoint
// placed inside it leaves at least minSize observations on each side,
// using the sorted-time order statistics. lastSegment marks whether the
// right neighbor is the closed final segment.
func feasibleInterval(s *timeseries.Sample, lo, hi float64, lastSegment bool, minSize int) (float64, float64, bool) {
	n := s.Len()
	loIdx := 0
	if lo > s.MinTime() {
		loIdx = sort.SearchFloat64s(s.Times, lo)
	}
	hiIdx := n
	if !lastSegment {
		hiIdx = sort.SearchFloat64s(s.Times, hi)
	}
	if loIdx+minSize > n || hiIdx-minSize < 0 {
		return 0, 0, false
	}

	// Left segment [lo, b) needs minSize points: b must clear the
	// minSize-th time at or after lo. Right segment [b, hi) symmetric.
	low := math.Nextafter(s.Times[loIdx+minSize-1], math.Inf(1))
	high := s.Times[hiIdx-minSize]
	if low <= lo {
		low = math.Nextafter(lo, math.Inf(1))
	}
	if high >= hi {
		high = math.Nextafter(hi, math.Inf(-1))
	}
	if low > high {
		return 0, 0, false
	}
	return low, high, true
}
