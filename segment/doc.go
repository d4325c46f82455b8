// Package segment fits piecewise-linear robust trend models with a fixed
// number of breakpoints.
//
// The fitting pipeline is built from four cooperating pieces:
//
//   - Evaluate scores one candidate breakpoint vector: robust Sen slopes
//     per segment, a continuous shape with one global median intercept
//     (or per-segment intercepts in independent mode), and the sum of
//     absolute deviations over uncensored points. Candidates that produce
//     an undersized or unfittable segment return ErrDegenerate and simply
//     lose during search.
//   - Optimize refines positions by coordinate descent with shrinking
//     10-point grid passes, bounded by the neighbors and the
//     minimum-segment-size order statistics.
//   - RobustFit runs the optimizer from deterministic, random, and
//     pairs-bootstrap starts and keeps whichever configuration scores
//     best on the original data.
//   - Bootstrap and BaggedFit quantify and stabilize the estimate with
//     warm-started resampled refits.
//
// # Usage
//
//	cfg := segment.DefaultConfig()
//	cfg.NBreakpoints = 1
//	cfg.Seed = 42
//	result, err := segment.Fit(sample, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("breakpoint at %.2f, SAR %.3f, BIC %.2f\n",
//	    result.Breakpoints[0], result.SAR, result.BIC)
//
// With NBootstrap > 0 the result carries percentile confidence intervals
// per breakpoint and the raw bootstrap matrix, which also answers window
// queries:
//
//	p := result.ProbabilityInWindow(40, 60)
//
// For automatic selection of the breakpoint count, use package
// autosegment.
package segment
