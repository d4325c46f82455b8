package segment

import (
	"math/rand/v2"

	"github.com/sartorproj/gosegtrend/senslope"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// Fit performs a segmented trend fit at the configured breakpoint count:
// multi-start position search (or bagging), per-segment robust estimation,
// information-criterion scoring, and optional bootstrap confidence
// intervals.
//
// The sample is sorted by time internally; the caller's copy is not
// touched. Randomness is drawn from a single sequential stream seeded by
// Config.Seed, so a fixed seed reproduces the fit exactly.
func Fit(sample *timeseries.Sample, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(sample.Len()); err != nil {
		return nil, err
	}
	s := sample.Copy()
	s.SortByTime()

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	opts := OptimizeOptions{
		MaxIter:        cfg.MaxIter,
		Tol:            cfg.Tol,
		MinSegmentSize: cfg.MinSegmentSize,
		Continuity:     cfg.Continuity,
	}

	var (
		bps       []float64
		converged bool
		ev        *Evaluation
	)
	if cfg.UseBagging && cfg.NBreakpoints > 0 {
		bagged, bagConverged, err := BaggedFit(s, cfg.NBreakpoints, cfg.NRestarts, cfg.Bagging.NBootstrap, cfg.Bagging.Aggregation, rng, opts)
		if err != nil {
			return nil, err
		}
		bagEv, err := Evaluate(s, bagged, EvalOptions{Continuity: cfg.Continuity, MinSegmentSize: cfg.MinSegmentSize})
		if err != nil {
			return nil, err
		}
		bps, converged, ev = bagged, bagConverged, bagEv
	} else {
		outcome, err := RobustFit(s, cfg.NBreakpoints, cfg.NRestarts, rng, opts)
		if err != nil {
			return nil, err
		}
		bps, converged, ev = outcome.Breakpoints, outcome.Converged, outcome.Eval
	}

	res := &Result{
		NBreakpoints: len(bps),
		Breakpoints:  bps,
		Converged:    converged,
		SAR:          ev.Residual,
		Criterion:    cfg.Criterion,
	}
	res.BIC, res.AIC, res.MBIC = Scores(ev.Residual, s.Len(), bps, s.MinTime(), s.MaxTime(), cfg.Continuity)
	res.Score = Score(cfg.Criterion, res.BIC, res.AIC, res.MBIC)

	segs, err := buildSegments(s, ev, cfg.Alpha)
	if err != nil {
		return nil, err
	}
	res.Segments = segs

	if s.HasOrigin() {
		for _, b := range bps {
			res.BreakpointTimes = append(res.BreakpointTimes, s.TimeAt(b))
		}
	}

	if cfg.NBootstrap > 0 && len(bps) > 0 {
		br, err := Bootstrap(s, bps, cfg.NBootstrap, rng, opts)
		if err != nil {
			return nil, err
		}
		res.BootstrapSamples = br.Samples
		res.BootstrapFallbacks = br.Fallbacks
		res.BreakpointCIs = PercentileCIs(br.Samples, cfg.Alpha)
	}
	return res, nil
}

// buildSegments fits each segment's reported slope, intercept and CI with
// the robust fitter. The search already validated the partition, so a
// fitter failure here means a genuinely degenerate segment.
func buildSegments(s *timeseries.Sample, ev *Evaluation, alpha float64) ([]Segment, error) {
	k := len(ev.Slopes) - 1
	segs := make([]Segment, 0, k+1)
	for i := 0; i <= k; i++ {
		end := s.Len()
		if i < k {
			end = ev.starts[i+1]
		}
		fit, err := senslope.FitSample(s.Slice(ev.starts[i], end), alpha)
		if err != nil {
			return nil, ErrDegenerate
		}
		segs = append(segs, Segment{
			Start:     ev.Bounds[i],
			End:       ev.Bounds[i+1],
			Slope:     fit.Slope,
			Intercept: fit.Intercept,
			LowerCI:   fit.LowerCI,
			UpperCI:   fit.UpperCI,
			N:         fit.N,
		})
	}
	return segs, nil
}
