package hybrid

import (
	"errors"
	"math"
	"sort"

	"github.com/sartorproj/gosegtrend/regression"
	"github.com/sartorproj/gosegtrend/segment"
	"github.com/sartorproj/gosegtrend/senslope"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// ErrNoModel is returned when no candidate cardinality yields a feasible
// OLS segmentation.
var ErrNoModel = errors.New("hybrid: no model converged")

// Config holds the options for the two-phase estimator.
type Config struct {
	MaxBreakpoints  int     // search 0..MaxBreakpoints (default 3)
	FixedK          int     // when >= 0, skip the search and use exactly this k
	MinSegmentSize  int     // fewest observations per segment (default 10)
	Alpha           float64 // significance level for reported CIs (default 0.05)
	LeftMultiplier  float64 // phase-1 stand-in factor for left-censored values (default 0.5)
	RightMultiplier float64 // phase-1 stand-in factor for right-censored values (default 1.1)
}

// DefaultConfig returns the default hybrid configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBreakpoints:  3,
		FixedK:          -1,
		MinSegmentSize:  10,
		Alpha:           0.05,
		LeftMultiplier:  0.5,
		RightMultiplier: 1.1,
	}
}

// Result holds the two-phase estimate.
type Result struct {
	NBreakpoints int
	Breakpoints  []float64
	Segments     []segment.Segment // robust phase-2 estimates
	BIC          float64           // phase-1 OLS-residual BIC of the winner
}

// Fit runs the two phases. Phase 1 locates the structure on
// censor-substituted values: k=0 by closed-form OLS, k>=1 by the exact
// piecewise OLS solver, ranked by OLS-residual BIC; solver failures
// exclude that cardinality rather than aborting. Phase 2 re-segments the
// original, non-substituted observations at the winning breakpoints and
// reports each segment's slope, intercept and CI from the robust
// censoring-aware fitter. The reported numbers never come from phase 1.
func Fit(sample *timeseries.Sample, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MinSegmentSize < 2 {
		return nil, errors.New("hybrid: MinSegmentSize must be at least 2")
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, errors.New("hybrid: Alpha must be in (0, 1)")
	}
	s := sample.Copy()
	s.SortByTime()
	if s.Len() < 2 {
		return nil, errors.New("hybrid: too few observations")
	}

	sub := substitute(s, cfg.LeftMultiplier, cfg.RightMultiplier)

	lowK, highK := 0, cfg.MaxBreakpoints
	if cfg.FixedK >= 0 {
		lowK, highK = cfg.FixedK, cfg.FixedK
	}

	bestBIC := math.Inf(1)
	var bestBps []float64
	found := false
	for k := lowK; k <= highK; k++ {
		bic, bps, err := phaseOne(s.Times, sub, k, cfg.MinSegmentSize)
		if err != nil {
			continue
		}
		if bic < bestBIC {
			bestBIC = bic
			bestBps = bps
			found = true
		}
	}
	if !found {
		return nil, ErrNoModel
	}

	segs, err := phaseTwo(s, bestBps, cfg.Alpha)
	if err != nil {
		return nil, err
	}
	return &Result{
		NBreakpoints: len(bestBps),
		Breakpoints:  bestBps,
		Segments:     segs,
		BIC:          bestBIC,
	}, nil
}

// substitute returns phase-1 stand-in values: censored observations are
// replaced by their detection limit scaled by the configured multiplier.
func substitute(s *timeseries.Sample, left, right float64) []float64 {
	out := make([]float64, s.Len())
	for i, v := range s.Values {
		switch s.Censoring[i] {
		case timeseries.LeftCensored:
			out[i] = v * left
		case timeseries.RightCensored:
			out[i] = v * right
		default:
			out[i] = v
		}
	}
	return out
}

// phaseOne fits a k-breakpoint OLS model and returns its BIC and
// breakpoint locations.
func phaseOne(t, y []float64, k, minSize int) (float64, []float64, error) {
	if k == 0 {
		fit, err := regression.OLS(t, y)
		if err != nil {
			return 0, nil, err
		}
		nf := float64(len(t))
		if fit.SSE <= 0 {
			return math.Inf(-1), []float64{}, nil
		}
		bic := nf*math.Log(fit.SSE/nf) + 2*math.Log(nf)
		return bic, []float64{}, nil
	}
	fit, err := regression.FitPiecewise(t, y, k, minSize)
	if err != nil {
		return 0, nil, err
	}
	return fit.BIC, fit.Breakpoints, nil
}

// phaseTwo re-segments the original observations at the winning
// breakpoints and estimates every segment with the robust fitter.
func phaseTwo(s *timeseries.Sample, bps []float64, alpha float64) ([]segment.Segment, error) {
	n := s.Len()
	k := len(bps)
	segs := make([]segment.Segment, 0, k+1)
	start := 0
	for i := 0; i <= k; i++ {
		end := n
		if i < k {
			end = sort.SearchFloat64s(s.Times, bps[i])
		}
		fit, err := senslope.FitSample(s.Slice(start, end), alpha)
		if err != nil {
			return nil, err
		}
		lo := s.MinTime()
		if i > 0 {
			lo = bps[i-1]
		}
		hi := s.MaxTime()
		if i < k {
			hi = bps[i]
		}
		segs = append(segs, segment.Segment{
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
	return segs, nil
}
