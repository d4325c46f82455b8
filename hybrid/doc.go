// Package hybrid estimates segmented trends in two phases.
//
// Phase 1 discovers the structure with ordinary least squares, which is
// statistically efficient at locating breaks under well-behaved noise:
// censored values are numerically substituted (detection limit times a
// configurable multiplier), k=0 is a closed-form line fit, and k>=1 uses
// the exact piecewise OLS solver; the OLS-residual BIC picks the winner.
//
// Phase 2 throws the substituted values away: the original observations
// are re-segmented at the winning breakpoints and each segment's slope,
// intercept, and confidence interval come from the robust,
// censoring-aware Sen-slope fitter. The reported statistics never depend
// on phase 1's stand-in values.
//
//	cfg := hybrid.DefaultConfig()
//	cfg.MaxBreakpoints = 2
//	res, err := hybrid.Fit(sample, cfg)
package hybrid
