// Package senslope estimates robust linear trends on (possibly censored)
// segments of a time series.
//
// The slope estimate is Sen's slope: the median of the pairwise slopes
// between comparable observation pairs. The intercept is the median of
// value - slope*time over uncensored points. The confidence interval is
// the classical rank-based interval built from the Mann-Kendall variance
// normal approximation.
//
// # Censoring policy
//
// A pair of observations censored in the same direction (both below their
// limits, or both above) carries no ordering information and is excluded.
// In every other pair the detection limit stands in for the censored
// value. This is the fitter's own ambiguity policy; callers only mark
// observations, they never pre-resolve pairs.
//
// # Usage
//
//	fit, err := senslope.FitSample(sample, 0.05)
//	if err != nil {
//	    // segment too degenerate to fit
//	}
//	fmt.Printf("slope %.3f [%.3f, %.3f]\n", fit.Slope, fit.LowerCI, fit.UpperCI)
//
// The Slope function computes only the median pairwise slope and is the
// form used inside segmentation search loops.
package senslope
