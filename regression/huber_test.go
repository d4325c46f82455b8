package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOLSExactLine(t *testing.T) {
	n := 20
	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i)
		ys[i] = 3*float64(i) + 2
	}
	fit, err := OLS(ts, ys)
	require.NoError(t, err)
	require.InDelta(t, 3.0, fit.Slope, 1e-9)
	require.InDelta(t, 2.0, fit.Intercept, 1e-9)
	require.InDelta(t, 0.0, fit.SSE, 1e-9)
}

func TestOLSTooFewPoints(t *testing.T) {
	_, err := OLS([]float64{1}, []float64{1})
	require.Error(t, err)
}

func TestHuberResistsOutlier(t *testing.T) {
	n := 20
	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i)
		ys[i] = 3*float64(i) + 2
	}
	ys[n-1] += 50 // one gross outlier at the leverage-heavy end

	ols, err := OLS(ts, ys)
	require.NoError(t, err)
	hub, err := Huber(ts, ys)
	require.NoError(t, err)

	require.Greater(t, math.Abs(ols.Slope-3), 0.3, "OLS should be pulled by the outlier")
	require.InDelta(t, 3.0, hub.Slope, 0.2, "Huber should stay near the true slope")
	require.Less(t, math.Abs(hub.Slope-3), math.Abs(ols.Slope-3))
}

func TestHuberCleanDataMatchesOLS(t *testing.T) {
	n := 30
	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i)
		ys[i] = -0.5*float64(i) + 4 + float64(i%5-2)/20
	}
	ols, err := OLS(ts, ys)
	require.NoError(t, err)
	hub, err := Huber(ts, ys)
	require.NoError(t, err)
	require.InDelta(t, ols.Slope, hub.Slope, 0.05)
}

func TestFitPiecewiseRecoversKink(t *testing.T) {
	n := 40
	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i)
		if i < 20 {
			ys[i] = float64(i)
		} else {
			ys[i] = 40 - float64(i)
		}
	}

	fit, err := FitPiecewise(ts, ys, 1, 5)
	require.NoError(t, err)
	require.Len(t, fit.Breakpoints, 1)
	require.InDelta(t, 19.5, fit.Breakpoints[0], 1.0)
	require.InDelta(t, 1.0, fit.Slopes[0], 1e-9)
	require.InDelta(t, -1.0, fit.Slopes[1], 1e-9)
	require.InDelta(t, 0.0, fit.SSE, 1e-9)
}

func TestFitPiecewiseTwoBreaks(t *testing.T) {
	n := 60
	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i)
		switch {
		case i < 20:
			ys[i] = 2 * float64(i)
		case i < 40:
			ys[i] = 40
		default:
			ys[i] = 40 - (float64(i) - 40)
		}
	}

	fit, err := FitPiecewise(ts, ys, 2, 5)
	require.NoError(t, err)
	require.Len(t, fit.Breakpoints, 2)
	require.InDelta(t, 19.5, fit.Breakpoints[0], 1.5)
	require.InDelta(t, 39.5, fit.Breakpoints[1], 1.5)
	require.InDelta(t, 2.0, fit.Slopes[0], 1e-9)
	require.InDelta(t, 0.0, fit.Slopes[1], 1e-9)
	require.InDelta(t, -1.0, fit.Slopes[2], 1e-9)
}

func TestFitPiecewiseInfeasible(t *testing.T) {
	ts := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ys := make([]float64, 10)
	_, err := FitPiecewise(ts, ys, 3, 5)
	require.Error(t, err)
}

func TestFitPiecewiseBICFormula(t *testing.T) {
	n := 40
	ts := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i)
		ys[i] = float64(i) + float64(i%3-1)/5
	}
	fit, err := FitPiecewise(ts, ys, 1, 5)
	require.NoError(t, err)

	nf := float64(n)
	want := nf*math.Log(fit.SSE/nf) + 5*math.Log(nf) // 3k+2 = 5 params at k=1
	require.InDelta(t, want, fit.BIC, 1e-9)
}
