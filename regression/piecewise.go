package regression

import (
	"errors"
	"fmt"
	"math"
)

// PiecewiseFit holds the solution of an exact piecewise OLS partition.
type PiecewiseFit struct {
	Breakpoints []float64 // k cut positions, midway between boundary observations
	Slopes      []float64 // k+1 per-segment slopes
	Intercepts  []float64 // k+1 per-segment intercepts
	SplitIdx    []int     // index of the first observation of each right segment
	SSE         float64
	BIC         float64
}

// FitPiecewise finds the k-breakpoint segmentation of (t, y) minimizing the
// total per-segment ordinary-least-squares error, by dynamic programming
// over all split positions. Every segment keeps at least minSize points.
// t must be sorted ascending.
//
// The reported BIC uses the Gaussian profile form
// n*ln(SSE/n) + (3k+2)*ln(n), matching independently parameterized
// segments.
func FitPiecewise(t, y []float64, k, minSize int) (*PiecewiseFit, error) {
	n := len(t)
	if len(y) != n {
		return nil, errors.New("regression: t and y must have the same length")
	}
	if k < 1 {
		return nil, errors.New("regression: k must be at least 1")
	}
	if minSize < 2 {
		minSize = 2
	}
	if n < (k+1)*minSize {
		return nil, fmt.Errorf("regression: %d points cannot hold %d segments of size %d", n, k+1, minSize)
	}

	pre := newPrefix(t, y)

	// dp[m][j]: best cost of covering the first j points with m segments.
	segs := k + 1
	dp := make([][]float64, segs+1)
	arg := make([][]int, segs+1)
	for m := 0; m <= segs; m++ {
		dp[m] = make([]float64, n+1)
		arg[m] = make([]int, n+1)
		for j := range dp[m] {
			dp[m][j] = math.Inf(1)
			arg[m][j] = -1
		}
	}
	dp[0][0] = 0
	for m := 1; m <= segs; m++ {
		for j := m * minSize; j <= n; j++ {
			for i := (m - 1) * minSize; i+minSize <= j; i++ {
				if math.IsInf(dp[m-1][i], 1) {
					continue
				}
				c := dp[m-1][i] + pre.sse(i, j)
				if c < dp[m][j] {
					dp[m][j] = c
					arg[m][j] = i
				}
			}
		}
	}
	if math.IsInf(dp[segs][n], 1) {
		return nil, errors.New("regression: no feasible segmentation")
	}

	// Walk back the split indices.
	splits := make([]int, 0, k)
	j := n
	for m := segs; m > 1; m-- {
		i := arg[m][j]
		splits = append(splits, i)
		j = i
	}
	for l, r := 0, len(splits)-1; l < r; l, r = l+1, r-1 {
		splits[l], splits[r] = splits[r], splits[l]
	}

	fit := &PiecewiseFit{
		Breakpoints: make([]float64, k),
		Slopes:      make([]float64, segs),
		Intercepts:  make([]float64, segs),
		SplitIdx:    splits,
		SSE:         dp[segs][n],
	}
	for i, s := range splits {
		fit.Breakpoints[i] = (t[s-1] + t[s]) / 2
	}
	start := 0
	for i := 0; i <= k; i++ {
		end := n
		if i < k {
			end = splits[i]
		}
		a, b, ok := pre.line(start, end)
		if !ok {
			return nil, errors.New("regression: singular segment fit")
		}
		fit.Intercepts[i] = a
		fit.Slopes[i] = b
		start = end
	}

	nf := float64(n)
	kParams := float64(3*k + 2)
	if fit.SSE <= 0 {
		fit.BIC = math.Inf(-1)
	} else {
		fit.BIC = nf*math.Log(fit.SSE/nf) + kParams*math.Log(nf)
	}
	return fit, nil
}

// prefix caches running sums so any segment's OLS error is O(1).
type prefix struct {
	st, sy, stt, sty, syy []float64
}

func newPrefix(t, y []float64) *prefix {
	n := len(t)
	p := &prefix{
		st:  make([]float64, n+1),
		sy:  make([]float64, n+1),
		stt: make([]float64, n+1),
		sty: make([]float64, n+1),
		syy: make([]float64, n+1),
	}
	for i := 0; i < n; i++ {
		p.st[i+1] = p.st[i] + t[i]
		p.sy[i+1] = p.sy[i] + y[i]
		p.stt[i+1] = p.stt[i] + t[i]*t[i]
		p.sty[i+1] = p.sty[i] + t[i]*y[i]
		p.syy[i+1] = p.syy[i] + y[i]*y[i]
	}
	return p
}

// line returns the OLS intercept and slope on [i, j).
func (p *prefix) line(i, j int) (a, b float64, ok bool) {
	n := float64(j - i)
	st := p.st[j] - p.st[i]
	sy := p.sy[j] - p.sy[i]
	stt := p.stt[j] - p.stt[i]
	sty := p.sty[j] - p.sty[i]
	den := n*stt - st*st
	if den == 0 {
		return 0, 0, false
	}
	b = (n*sty - st*sy) / den
	a = (sy - b*st) / n
	return a, b, true
}

// sse returns the OLS residual sum of squares on [i, j).
func (p *prefix) sse(i, j int) float64 {
	n := float64(j - i)
	st := p.st[j] - p.st[i]
	sy := p.sy[j] - p.sy[i]
	stt := p.stt[j] - p.stt[i]
	sty := p.sty[j] - p.sty[i]
	syy := p.syy[j] - p.syy[i]
	den := n*stt - st*st
	if den == 0 {
		// Vertical stack of points: only the mean is identified.
		return syy - sy*sy/n
	}
	b := (n*sty - st*sy) / den
	a := (sy - b*st) / n
	sse := syy - a*sy - b*sty
	if sse < 0 {
		sse = 0
	}
	return sse
}
