package senslope

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gosegtrend/timeseries"
)

// ErrDegenerate is returned when a segment has no comparable point pairs,
// so no slope can be estimated.
var ErrDegenerate = errors.New("senslope: no comparable point pairs")

// Fit holds the robust estimates for one segment.
type Fit struct {
	Slope     float64
	Intercept float64
	LowerCI   float64
	UpperCI   float64
	Residual  float64 // sum of absolute residuals over uncensored points
	N         int     // observations in the segment
	NSlopes   int     // pairwise slopes that entered the median
}

// Slope returns only the Sen slope of the sample, skipping intercept and
// confidence interval work. This is the hot path of the segment evaluator.
func Slope(s *timeseries.Sample) (float64, error) {
	slopes := pairSlopes(s)
	if len(slopes) == 0 {
		return 0, ErrDegenerate
	}
	sort.Float64s(slopes)
	return median(slopes), nil
}

// FitSample computes the full robust fit for a segment: the Sen slope, a
// median-based intercept, a two-sided (1-alpha) confidence interval for
// the slope, and the segment's absolute-residual contribution.
func FitSample(s *timeseries.Sample, alpha float64) (*Fit, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.New("senslope: alpha must be in (0, 1)")
	}
	slopes := pairSlopes(s)
	if len(slopes) == 0 {
		return nil, ErrDegenerate
	}
	sort.Float64s(slopes)
	slope := median(slopes)

	fit := &Fit{
		Slope:   slope,
		N:       s.Len(),
		NSlopes: len(slopes),
	}
	fit.Intercept = intercept(s, slope)
	fit.LowerCI, fit.UpperCI = slopeInterval(slopes, s.Len(), alpha)

	for i, v := range s.Values {
		if s.Censoring[i].Censored() {
			continue
		}
		fit.Residual += math.Abs(v - (fit.Intercept + slope*s.Times[i]))
	}
	return fit, nil
}

// pairSlopes returns the slopes of all comparable observation pairs.
//
// Censoring policy: pairs censored in the same direction carry no ordering
// information and are dropped; in every other pair the detection limit
// stands in for the censored value. Pairs with tied times are dropped.
func pairSlopes(s *timeseries.Sample) []float64 {
	n := s.Len()
	var slopes []float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if s.Times[j] == s.Times[i] {
				continue
			}
			ci, cj := s.Censoring[i], s.Censoring[j]
			if ci.Censored() && ci == cj {
				continue
			}
			slopes = append(slopes, (s.Values[j]-s.Values[i])/(s.Times[j]-s.Times[i]))
		}
	}
	return slopes
}

// intercept returns the median of value - slope*time over uncensored
// points, falling back to detection-limit stand-ins when every point in
// the segment is censored.
func intercept(s *timeseries.Sample, slope float64) float64 {
	resid := make([]float64, 0, s.Len())
	for i, v := range s.Values {
		if !s.Censoring[i].Censored() {
			resid = append(resid, v-slope*s.Times[i])
		}
	}
	if len(resid) == 0 {
		for i, v := range s.Values {
			resid = append(resid, v-slope*s.Times[i])
		}
	}
	sort.Float64s(resid)
	return median(resid)
}

// slopeInterval builds the rank-based confidence interval of Sen's slope
// using the Mann-Kendall variance normal approximation (ties ignored).
func slopeInterval(sorted []float64, n int, alpha float64) (float64, float64) {
	np := len(sorted)
	if np < 2 {
		return sorted[0], sorted[0]
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - alpha/2)
	nf := float64(n)
	varS := nf * (nf - 1) * (2*nf + 5) / 18
	c := z * math.Sqrt(varS)

	lo := int(math.Floor((float64(np) - c) / 2))
	hi := int(math.Ceil((float64(np)+c)/2)) + 1
	if lo < 0 {
		lo = 0
	}
	if hi > np {
		hi = np
	}
	return sorted[lo], sorted[hi-1]
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
