// Package regression provides least-squares kernels for segmentation
// search.
//
// Three fitters are exposed:
//
//   - OLS: closed-form ordinary least squares for one line.
//   - Huber: an iteratively reweighted least-squares fit of the Huber
//     loss, robust to outlying values while staying convex.
//   - FitPiecewise: an exact dynamic-programming search for the
//     k-breakpoint partition minimizing total per-segment OLS error.
//
// These fitters are structure-discovery tools: they locate breakpoints
// efficiently under least-squares assumptions. Final per-segment slope and
// confidence-interval reporting belongs to package senslope, which is
// censoring-aware.
package regression
