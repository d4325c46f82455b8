// Package autosegment chooses the number of trend breakpoints
// automatically.
//
// Select fits candidate models for every cardinality from 0 to
// MaxBreakpoints, scores each with the configured information criterion
// (BIC, AIC, or mBIC), and resolves one of three selection strategies:
//
//   - ByCriterion: take the minimum-score candidate (default).
//   - MergeSimilar: take the criterion winner, then test every adjacent
//     segment pair with a Z-statistic on the slope difference and step
//     the cardinality down while any pair is statistically
//     indistinguishable.
//   - Permutation: grow from zero breakpoints, admitting each extra
//     breakpoint only when its residual reduction beats a
//     residual-permutation null distribution.
//
// # Usage
//
//	cfg := autosegment.DefaultConfig()
//	cfg.MaxBreakpoints = 2
//	cfg.Fit.Seed = 42
//	sel, err := autosegment.Select(sample, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("chose %d breakpoints\n", sel.Best.NBreakpoints)
//	for _, c := range sel.Candidates {
//	    fmt.Printf("k=%d score=%.2f\n", c.K, c.Score)
//	}
//
// Candidate cardinalities whose fit fails are excluded from the pool and
// recorded in the summary table with their error; only when every
// cardinality fails does Select return ErrNoModel. The winner is refit
// with the full configuration, including bootstrap confidence intervals
// when NBootstrap > 0.
package autosegment
