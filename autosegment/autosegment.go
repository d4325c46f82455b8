package autosegment

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gosegtrend/segment"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// ErrNoModel is returned when every candidate cardinality fails to
// produce a scoreable model.
var ErrNoModel = errors.New("autosegment: no model converged")

// Strategy decides how the selection engine steps through candidate
// breakpoint counts. Exactly one strategy applies per call.
type Strategy interface {
	strategy()
}

// ByCriterion picks the candidate with the minimum information-criterion
// score. This is the default strategy.
type ByCriterion struct{}

// MergeSimilar starts from the criterion winner and steps the breakpoint
// count down while any two adjacent segments have statistically
// indistinguishable slopes at MergingAlpha.
type MergeSimilar struct {
	MergingAlpha float64
}

// Permutation grows the breakpoint count from zero, admitting each extra
// breakpoint only when its residual reduction beats the distribution of
// reductions on residual-permuted synthetic series. Alpha defaults to the
// fit configuration's Alpha when zero.
type Permutation struct {
	NPermutations int
	Alpha         float64
}

func (ByCriterion) strategy()  {}
func (MergeSimilar) strategy() {}
func (Permutation) strategy()  {}

// Config holds the options for automatic model selection.
type Config struct {
	MaxBreakpoints int            // largest candidate cardinality (default 3)
	Fit            segment.Config // per-candidate fit options; NBootstrap applies to the winner only
	Strategy       Strategy       // nil means ByCriterion
}

// DefaultConfig returns the default selection configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBreakpoints: 3,
		Fit:            *segment.DefaultConfig(),
		Strategy:       ByCriterion{},
	}
}

// Candidate is one row of the selection summary table.
type Candidate struct {
	K           int
	Breakpoints []float64
	SAR         float64
	BIC         float64
	AIC         float64
	MBIC        float64
	Score       float64
	Converged   bool
	Err         error // why this cardinality was excluded, if it was
}

// Selection is the product of a model-selection run.
type Selection struct {
	Best       *segment.Result
	Candidates []Candidate
}

// Select fits candidates for k = 0..MaxBreakpoints, scores them with the
// configured criterion, resolves the configured strategy, and refits the
// winner with full bootstrapping when confidence intervals are requested.
// Cardinalities whose fit fails are excluded from the pool; if every
// cardinality fails, ErrNoModel is returned.
func Select(sample *timeseries.Sample, cfg *Config) (*Selection, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxBreakpoints < 0 {
		return nil, errors.New("autosegment: MaxBreakpoints must be non-negative")
	}

	strategy := cfg.Strategy
	if strategy == nil {
		strategy = ByCriterion{}
	}

	sel := &Selection{}
	bestK := -1
	bestScore := math.Inf(1)
	for k := 0; k <= cfg.MaxBreakpoints; k++ {
		res, err := cheapFit(sample, cfg, k)
		if err != nil {
			sel.Candidates = append(sel.Candidates, Candidate{K: k, Err: err})
			continue
		}
		sel.Candidates = append(sel.Candidates, Candidate{
			K:           k,
			Breakpoints: res.Breakpoints,
			SAR:         res.SAR,
			BIC:         res.BIC,
			AIC:         res.AIC,
			MBIC:        res.MBIC,
			Score:       res.Score,
			Converged:   res.Converged,
		})
		if res.Score < bestScore {
			bestScore = res.Score
			bestK = k
		}
	}
	if bestK < 0 {
		return nil, ErrNoModel
	}

	var (
		winnerK int
		err     error
	)
	switch st := strategy.(type) {
	case ByCriterion:
		winnerK = bestK
	case MergeSimilar:
		winnerK, err = mergePass(sample, cfg, bestK, st)
	case Permutation:
		winnerK, err = permutationPass(sample, cfg, st)
	default:
		return nil, fmt.Errorf("autosegment: unknown strategy %T", strategy)
	}
	if err != nil {
		return nil, err
	}

	final := cfg.Fit
	final.NBreakpoints = winnerK
	best, err := segment.Fit(sample, &final)
	if err != nil {
		return nil, err
	}
	sel.Best = best
	return sel, nil
}

// cheapFit fits one candidate cardinality without bootstrap or bagging.
func cheapFit(sample *timeseries.Sample, cfg *Config, k int) (*segment.Result, error) {
	fit := cfg.Fit
	fit.NBreakpoints = k
	fit.NBootstrap = 0
	fit.UseBagging = false
	return segment.Fit(sample, &fit)
}
