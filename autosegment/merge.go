package autosegment

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gosegtrend/segment"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// mergePass steps the winning cardinality down while any pair of adjacent
// segments has statistically indistinguishable slopes at mergingAlpha.
//
// The standard error of each slope is back-derived from the reported CI
// half-width, assuming the interval was built at the normal two-sided
// critical value for the fit's Alpha. That assumption holds for the
// in-repo Sen-slope fitter; with CIs from another method this Z-test is
// an approximation, not an exact test.
func mergePass(sample *timeseries.Sample, cfg *Config, startK int, st MergeSimilar) (int, error) {
	if st.MergingAlpha <= 0 || st.MergingAlpha >= 1 {
		return 0, errors.New("autosegment: MergingAlpha must be in (0, 1)")
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	z := normal.Quantile(1 - cfg.Fit.Alpha/2)

	for k := startK; k > 0; k-- {
		res, err := cheapFit(sample, cfg, k)
		if err != nil {
			// This cardinality became infeasible; keep shrinking.
			continue
		}
		if allAdjacentDistinct(res.Segments, z, st.MergingAlpha, normal) {
			return k, nil
		}
	}
	return 0, nil
}

// allAdjacentDistinct tests every adjacent segment pair with a Z-statistic
// on the slope difference and reports whether all pairs differ at
// mergingAlpha.
func allAdjacentDistinct(segs []segment.Segment, z, mergingAlpha float64, normal distuv.Normal) bool {
	for i := 1; i < len(segs); i++ {
		se1 := (segs[i-1].UpperCI - segs[i-1].LowerCI) / (2 * z)
		se2 := (segs[i].UpperCI - segs[i].LowerCI) / (2 * z)
		denom := math.Sqrt(se1*se1 + se2*se2)
		if denom == 0 {
			// Zero-width CIs: slopes are exact, compare directly.
			if segs[i-1].Slope == segs[i].Slope {
				return false
			}
			continue
		}
		zStat := math.Abs(segs[i-1].Slope-segs[i].Slope) / denom
		p := 2 * (1 - normal.CDF(zStat))
		if p > mergingAlpha {
			return false
		}
	}
	return true
}
