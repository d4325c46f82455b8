package segment

import "math"

// edgeFraction is the share of the time range at each end considered an
// edge for the mBIC boundary penalty.
const edgeFraction = 0.1

// KParams returns the effective parameter count of a k-breakpoint model:
// 2k+2 when segments are fit continuously, 3k+2 when independently.
func KParams(k int, continuity bool) int {
	if continuity {
		return 2*k + 2
	}
	return 3*k + 2
}

// Scores computes the three information criteria from the total absolute
// residual, the sample size, and the breakpoint vector:
//
//	bic  = n*ln(residual/n) + kParams*ln(n)
//	aic  = n*ln(residual/n) + 2*kParams
//	mbic = bic + ln(n) when any breakpoint falls in the outer 10% of the
//	       time range, discouraging edge-effect breakpoints.
func Scores(residual float64, n int, breakpoints []float64, tmin, tmax float64, continuity bool) (bic, aic, mbic float64) {
	nf := float64(n)
	kp := float64(KParams(len(breakpoints), continuity))
	ll := nf * math.Log(residual/nf)
	bic = ll + kp*math.Log(nf)
	aic = ll + 2*kp
	mbic = bic
	span := tmax - tmin
	for _, b := range breakpoints {
		if b < tmin+edgeFraction*span || b > tmax-edgeFraction*span {
			mbic += math.Log(nf)
			break
		}
	}
	return bic, aic, mbic
}

// Score returns the requested criterion from the three computed values.
func Score(criterion Criterion, bic, aic, mbic float64) float64 {
	switch criterion {
	case AIC:
		return aic
	case MBIC:
		return mbic
	default:
		return bic
	}
}
