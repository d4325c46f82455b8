package segment

import (
	"errors"
	"fmt"
)

// Criterion selects the information criterion used for model scoring.
type Criterion int

const (
	// BIC is the Bayesian information criterion.
	BIC Criterion = iota
	// AIC is the Akaike information criterion.
	AIC
	// MBIC is BIC plus a boundary penalty on edge breakpoints.
	MBIC
)

// String returns the lowercase criterion name.
func (c Criterion) String() string {
	switch c {
	case AIC:
		return "aic"
	case MBIC:
		return "mbic"
	default:
		return "bic"
	}
}

// Aggregation selects how bagging combines per-breakpoint columns.
type Aggregation int

const (
	// AggMedian takes the per-column median (default).
	AggMedian Aggregation = iota
	// AggMean takes the per-column mean.
	AggMean
)

// BaggingOptions configures the bagging estimator.
type BaggingOptions struct {
	NBootstrap  int // resampled refits to aggregate (default 100)
	Aggregation Aggregation
}

// Config holds the options for a fixed-cardinality segmented fit.
type Config struct {
	NBreakpoints   int       // breakpoints to fit (k >= 0)
	MinSegmentSize int       // fewest observations a segment may hold (default 10)
	Continuity     bool      // piecewise-continuous shape (default true)
	Criterion      Criterion // criterion reported in Score
	Alpha          float64   // two-sided significance level (default 0.05)
	NBootstrap     int       // bootstrap trials for CIs; 0 disables (default 200)
	NRestarts      int       // extra bootstrap-restart runs in RobustFit (default 10)
	MaxIter        int       // coordinate-descent sweep budget (default 30)
	Tol            float64   // convergence tolerance on breakpoint movement (default 1e-4)
	UseBagging     bool
	Bagging        BaggingOptions
	Seed           uint64 // seed for the per-call random stream
}

// DefaultConfig returns the default fixed-k fit configuration.
func DefaultConfig() *Config {
	return &Config{
		NBreakpoints:   1,
		MinSegmentSize: 10,
		Continuity:     true,
		Criterion:      BIC,
		Alpha:          0.05,
		NBootstrap:     200,
		NRestarts:      10,
		MaxIter:        30,
		Tol:            1e-4,
		Bagging:        BaggingOptions{NBootstrap: 100, Aggregation: AggMedian},
	}
}

// validate checks the configuration against the sample size. Invalid
// configurations are fatal to the call.
func (c *Config) validate(n int) error {
	if c.NBreakpoints < 0 {
		return errors.New("segment: NBreakpoints must be non-negative")
	}
	if c.MinSegmentSize < 2 {
		return errors.New("segment: MinSegmentSize must be at least 2")
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return errors.New("segment: Alpha must be in (0, 1)")
	}
	if c.MaxIter < 1 {
		return errors.New("segment: MaxIter must be positive")
	}
	if c.Tol <= 0 {
		return errors.New("segment: Tol must be positive")
	}
	if need := (c.NBreakpoints + 1) * c.MinSegmentSize; n < need {
		return fmt.Errorf("segment: %d observations cannot hold %d segments of size %d",
			n, c.NBreakpoints+1, c.MinSegmentSize)
	}
	return nil
}
