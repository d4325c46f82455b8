package autosegment

import (
	"errors"
	"math/rand/v2"

	"github.com/sartorproj/gosegtrend/segment"
	"github.com/sartorproj/gosegtrend/timeseries"
)

// defaultPermutations is used when a Permutation strategy does not name a
// trial count.
const defaultPermutations = 100

// permutationPass grows the breakpoint count from zero. Each step builds
// synthetic series by permuting the k-model's uncensored residuals and
// adding them back onto its fitted values, refits both k and k+1 on every
// synthetic series, and admits the extra breakpoint only when the observed
// residual reduction exceeds the permutation distribution at alpha.
// Stops at the first rejection or at MaxBreakpoints.
func permutationPass(sample *timeseries.Sample, cfg *Config, st Permutation) (int, error) {
	nPerm := st.NPermutations
	if nPerm < 1 {
		nPerm = defaultPermutations
	}
	alpha := st.Alpha
	if alpha == 0 {
		alpha = cfg.Fit.Alpha
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, errors.New("autosegment: permutation alpha must be in (0, 1)")
	}

	s := sample.Copy()
	s.SortByTime()
	rng := rand.New(rand.NewPCG(cfg.Fit.Seed, cfg.Fit.Seed^0xa5a5a5a55a5a5a5a))
	evalOpts := segment.EvalOptions{
		Continuity:     cfg.Fit.Continuity,
		MinSegmentSize: cfg.Fit.MinSegmentSize,
	}

	k := 0
	for k < cfg.MaxBreakpoints {
		resK, err := cheapFit(s, cfg, k)
		if err != nil {
			if k == 0 {
				return 0, ErrNoModel
			}
			break
		}
		resK1, err := cheapFit(s, cfg, k+1)
		if err != nil {
			break
		}
		observed := resK.SAR - resK1.SAR

		ev, err := segment.Evaluate(s, resK.Breakpoints, evalOpts)
		if err != nil {
			break
		}
		uncensored := make([]int, 0, s.Len())
		resid := make([]float64, 0, s.Len())
		for i := range s.Values {
			if !s.Censoring[i].Censored() {
				uncensored = append(uncensored, i)
				resid = append(resid, s.Values[i]-ev.Fitted[i])
			}
		}

		exceeded := 0
		for trial := 0; trial < nPerm; trial++ {
			perm := s.Copy()
			order := rng.Perm(len(resid))
			for pos, idx := range uncensored {
				perm.Values[idx] = ev.Fitted[idx] + resid[order[pos]]
			}
			pk, err1 := cheapFit(perm, cfg, k)
			pk1, err2 := cheapFit(perm, cfg, k+1)
			if err1 != nil || err2 != nil {
				continue
			}
			if pk.SAR-pk1.SAR >= observed {
				exceeded++
			}
		}
		if float64(exceeded)/float64(nPerm) < alpha {
			k++
			continue
		}
		break
	}
	return k, nil
}
