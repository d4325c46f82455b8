package segment

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/gosegtrend/senslope"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// ErrDegenerate marks a candidate whose segmentation cannot be scored:
// a segment under the minimum size, or no uncensored points to anchor the
// intercept. During search such candidates simply lose; ErrDegenerate is
// never fatal on its own.
var ErrDegenerate = errors.New("segment: degenerate candidate")

// EvalOptions configures candidate evaluation.
type EvalOptions struct {
	Continuity     bool
	MinSegmentSize int
}

// Evaluation is the scored form of one breakpoint vector.
type Evaluation struct {
	Residual   float64   // sum of absolute deviations over uncensored points
	Fitted     []float64 // fitted value per observation
	Bounds     []float64 // k+2 segment boundaries including both ends
	Slopes     []float64 // k+1 per-segment slopes
	Intercepts []float64 // k+1 per-segment intercepts
	Counts     []int     // k+1 per-segment observation counts
	starts     []int     // first observation index of each segment
}

// Evaluate scores one candidate breakpoint vector against a time-sorted
// sample. Breakpoints must be strictly increasing and strictly inside the
// observed time range. Returns ErrDegenerate when the candidate produces a
// segment that cannot be fit.
func Evaluate(s *timeseries.Sample, breakpoints []float64, opts EvalOptions) (*Evaluation, error) {
	n := s.Len()
	if n < 2 {
		return nil, errors.New("segment: need at least two observations")
	}
	if opts.MinSegmentSize < 2 {
		return nil, errors.New("segment: MinSegmentSize must be at least 2")
	}
	tmin, tmax := s.MinTime(), s.MaxTime()
	for i, b := range breakpoints {
		if b <= tmin || b >= tmax {
			return nil, fmt.Errorf("segment: breakpoint %g outside open time range (%g, %g)", b, tmin, tmax)
		}
		if i > 0 && b <= breakpoints[i-1] {
			return nil, errors.New("segment: breakpoints must be strictly increasing")
		}
	}

	k := len(breakpoints)
	ev := &Evaluation{
		Bounds:     make([]float64, k+2),
		Slopes:     make([]float64, k+1),
		Intercepts: make([]float64, k+1),
		Counts:     make([]int, k+1),
		starts:     make([]int, k+1),
		Fitted:     make([]float64, n),
	}
	ev.Bounds[0] = tmin
	copy(ev.Bounds[1:], breakpoints)
	ev.Bounds[k+1] = tmax

	// Segment i covers [Bounds[i], Bounds[i+1]); the last is closed.
	start := 0
	for i := 0; i <= k; i++ {
		end := n
		if i < k {
			end = sort.SearchFloat64s(s.Times, breakpoints[i])
		}
		ev.starts[i] = start
		ev.Counts[i] = end - start
		if ev.Counts[i] < opts.MinSegmentSize {
			return nil, ErrDegenerate
		}
		slope, err := senslope.Slope(s.Slice(start, end))
		if err != nil {
			return nil, ErrDegenerate
		}
		ev.Slopes[i] = slope
		start = end
	}

	if opts.Continuity {
		return ev, evalContinuous(s, ev)
	}
	return ev, evalIndependent(s, ev)
}

// evalContinuous integrates the per-segment slopes into one continuous
// shape anchored by a single global median intercept over uncensored
// points.
func evalContinuous(s *timeseries.Sample, ev *Evaluation) error {
	k := len(ev.Slopes) - 1

	// Shape offset accumulated at the left bound of each segment.
	offsets := make([]float64, k+1)
	for i := 1; i <= k; i++ {
		offsets[i] = offsets[i-1] + ev.Slopes[i-1]*(ev.Bounds[i]-ev.Bounds[i-1])
	}

	shape := make([]float64, s.Len())
	for i := 0; i <= k; i++ {
		end := s.Len()
		if i < k {
			end = ev.starts[i+1]
		}
		for j := ev.starts[i]; j < end; j++ {
			shape[j] = offsets[i] + ev.Slopes[i]*(s.Times[j]-ev.Bounds[i])
		}
	}

	resid := make([]float64, 0, s.Len())
	for j, v := range s.Values {
		if !s.Censoring[j].Censored() {
			resid = append(resid, v-shape[j])
		}
	}
	if len(resid) == 0 {
		return ErrDegenerate
	}
	sort.Float64s(resid)
	c := median(resid)

	for i := 0; i <= k; i++ {
		ev.Intercepts[i] = c + offsets[i] - ev.Slopes[i]*ev.Bounds[i]
	}
	for j := range shape {
		ev.Fitted[j] = shape[j] + c
		if !s.Censoring[j].Censored() {
			ev.Residual += math.Abs(s.Values[j] - ev.Fitted[j])
		}
	}
	return nil
}

// evalIndependent gives each segment its own median intercept, allowing
// discontinuous jumps at the boundaries. A segment with no uncensored
// points keeps intercept 0 and contributes no residual.
func evalIndependent(s *timeseries.Sample, ev *Evaluation) error {
	k := len(ev.Slopes) - 1
	for i := 0; i <= k; i++ {
		end := s.Len()
		if i < k {
			end = ev.starts[i+1]
		}
		resid := make([]float64, 0, end-ev.starts[i])
		for j := ev.starts[i]; j < end; j++ {
			if !s.Censoring[j].Censored() {
				resid = append(resid, s.Values[j]-ev.Slopes[i]*s.Times[j])
			}
		}
		intercept := 0.0
		if len(resid) > 0 {
			sort.Float64s(resid)
			intercept = median(resid)
		}
		ev.Intercepts[i] = intercept
		for j := ev.starts[i]; j < end; j++ {
			ev.Fitted[j] = intercept + ev.Slopes[i]*s.Times[j]
			if !s.Censoring[j].Censored() {
				ev.Residual += math.Abs(s.Values[j] - ev.Fitted[j])
			}
		}
	}
	return nil
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
