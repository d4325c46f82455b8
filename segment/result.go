package segment

import "time"

// Segment is one fitted piece of the trend model. Start and End are the
// segment's time bounds; the robust slope, intercept and confidence
// interval come from the censoring-aware Sen-slope fitter.
type Segment struct {
	Start     float64
	End       float64
	Slope     float64
	Intercept float64
	LowerCI   float64
	UpperCI   float64
	N         int
}

// Result is the structured record returned to the caller.
type Result struct {
	NBreakpoints     int
	Breakpoints      []float64
	BreakpointTimes  []time.Time  // wall-clock form, when the sample has an origin
	BreakpointCIs    [][2]float64 // two-sided percentile intervals, one per breakpoint
	BootstrapSamples [][]float64  // [nBootstrap][k], empty when bootstrapping is disabled
	// BootstrapFallbacks counts bootstrap trials whose optimizer failed
	// and contributed the point estimate instead; a large count means the
	// intervals are narrower than the data supports.
	BootstrapFallbacks int
	Segments         []Segment
	Converged        bool
	SAR              float64 // total absolute residual over uncensored points
	BIC              float64
	AIC              float64
	MBIC             float64
	Score            float64
	Criterion        Criterion
}

// ProbabilityInWindow returns the fraction of bootstrap breakpoint
// positions falling inside [start, end]. Without bootstrap samples the
// answer is 0.
func (r *Result) ProbabilityInWindow(start, end float64) float64 {
	return windowFraction(r.BootstrapSamples, start, end)
}
