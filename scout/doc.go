// Package scout searches for trend breakpoints with differential
// evolution.
//
// Unlike package segment's coordinate descent, scout treats the k
// breakpoint positions as one continuous vector and evolves a population
// of candidates through mutation and binomial crossover. The cost of a
// candidate discretizes its positions to observation indices, rejects any
// configuration with an undersized segment, and otherwise sums the
// absolute residuals of a Huber-loss line fit per segment (an OLS cost is
// available for baseline comparison).
//
// The search objective and the reported statistics are deliberately
// decoupled: once the population converges, each segment is re-estimated
// with the rank-based Sen-slope fitter, which provides the slope,
// intercept, and confidence interval in the result.
//
//	res, err := scout.Fit(t, y, 1, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("breakpoint near %.1f\n", res.Breakpoints[0])
package scout
