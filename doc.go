// Package gosegtrend provides segmented (piecewise) trend analysis for
// time-ordered, possibly censored observations: how many structural
// breakpoints best describe a series, where they are, and what the robust
// slope is on each resulting segment.
//
// # Features
//
//   - Robust piecewise fitting with Sen's slope per segment, continuous
//     or independent segment intercepts
//   - Coordinate-descent breakpoint refinement with multi-start and
//     pairs-bootstrap robustification
//   - Bootstrap confidence intervals, window-probability queries, and
//     bagged point estimates
//   - Automatic breakpoint-count selection by BIC, AIC, or mBIC, with
//     optional segment merging and permutation testing
//   - A differential-evolution search with Huber-loss segment costs
//   - A hybrid OLS-discovery / robust-reporting two-phase estimator
//   - Censoring-aware throughout: below- and above-limit observations
//     carry their detection limit and a censor mark
//
// # Quick Start
//
// Fit at a fixed breakpoint count:
//
//	sample, _ := timeseries.New(times, values)
//	cfg := segment.DefaultConfig()
//	cfg.NBreakpoints = 1
//	result, _ := segment.Fit(sample, cfg)
//
// Select the breakpoint count automatically:
//
//	sel, _ := autosegment.Select(sample, autosegment.DefaultConfig())
//	fmt.Printf("%d breakpoints\n", sel.Best.NBreakpoints)
//
// # Packages
//
//   - timeseries: observation containers and CSV loading
//   - senslope: the robust censoring-aware segment fitter
//   - regression: OLS, Huber, and exact piecewise-OLS kernels
//   - segment: fixed-cardinality fitting, bootstrap, bagging
//   - autosegment: automatic model selection
//   - scout: differential-evolution breakpoint search
//   - hybrid: OLS structure discovery with robust re-estimation
package gosegtrend
