package segment

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosegtrend/timeseries"
)

func TestFitRecoversKink(t *testing.T) {
	s := kinkSample(t, 100, 50, true)
	cfg := DefaultConfig()
	cfg.NBreakpoints = 1
	cfg.NBootstrap = 30
	cfg.NRestarts = 2
	cfg.Seed = 42

	res, err := Fit(s, cfg)
	require.NoError(t, err)

	require.Equal(t, 1, res.NBreakpoints)
	require.InDelta(t, 50.0, res.Breakpoints[0], 5.0)
	require.Len(t, res.Segments, 2)
	require.InDelta(t, 1.0, res.Segments[0].Slope, 0.2)
	require.InDelta(t, -1.0, res.Segments[1].Slope, 0.2)
	require.Equal(t, res.Segments[0].End, res.Breakpoints[0])
	require.Equal(t, res.Segments[1].Start, res.Breakpoints[0])

	require.Len(t, res.BootstrapSamples, 30)
	for _, row := range res.BootstrapSamples {
		require.Len(t, row, 1)
	}
	require.Len(t, res.BreakpointCIs, 1)
	ci := res.BreakpointCIs[0]
	require.LessOrEqual(t, ci[0], ci[1])
	require.Zero(t, res.BootstrapFallbacks)

	// Reported scores must be reproducible from the reported residual.
	bic, aic, mbic := Scores(res.SAR, 100, res.Breakpoints, s.MinTime(), s.MaxTime(), cfg.Continuity)
	require.Equal(t, bic, res.BIC)
	require.Equal(t, aic, res.AIC)
	require.Equal(t, mbic, res.MBIC)
	require.Equal(t, res.BIC, res.Score)

	require.Equal(t, 1.0, res.ProbabilityInWindow(s.MinTime(), s.MaxTime()))
	require.Equal(t, 0.0, res.ProbabilityInWindow(200, 300))
}

func TestFitZeroBreakpoints(t *testing.T) {
	s := kinkSample(t, 50, 500, false) // pure line
	cfg := DefaultConfig()
	cfg.NBreakpoints = 0
	cfg.NBootstrap = 0

	res, err := Fit(s, cfg)
	require.NoError(t, err)
	require.Equal(t, 0, res.NBreakpoints)
	require.Empty(t, res.Breakpoints)
	require.Empty(t, res.BootstrapSamples)
	require.True(t, res.Converged)
	require.Len(t, res.Segments, 1)
	require.InDelta(t, 1.0, res.Segments[0].Slope, 1e-9)
}

func TestFitDeterministic(t *testing.T) {
	s := kinkSample(t, 80, 40, true)
	cfg := DefaultConfig()
	cfg.NBreakpoints = 1
	cfg.NBootstrap = 10
	cfg.NRestarts = 2
	cfg.Seed = 7

	a, err := Fit(s, cfg)
	require.NoError(t, err)
	b, err := Fit(s, cfg)
	require.NoError(t, err)

	require.Equal(t, a.Breakpoints, b.Breakpoints)
	require.Equal(t, a.SAR, b.SAR)
	require.Equal(t, a.BootstrapSamples, b.BootstrapSamples)
}

func TestFitBagging(t *testing.T) {
	s := kinkSample(t, 80, 40, true)
	cfg := DefaultConfig()
	cfg.NBreakpoints = 1
	cfg.NBootstrap = 0
	cfg.NRestarts = 2
	cfg.UseBagging = true
	cfg.Bagging.NBootstrap = 15
	cfg.Seed = 3

	res, err := Fit(s, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, res.NBreakpoints)
	require.InDelta(t, 40.0, res.Breakpoints[0], 5.0)
	require.True(t, res.Converged)
}

func TestFitBaggingReportsConvergence(t *testing.T) {
	// A one-sweep budget with an unreachable tolerance must surface as
	// Converged=false even on the bagging path.
	s := kinkSample(t, 80, 40, true)
	cfg := DefaultConfig()
	cfg.NBreakpoints = 1
	cfg.NBootstrap = 0
	cfg.NRestarts = 1
	cfg.UseBagging = true
	cfg.Bagging.NBootstrap = 10
	cfg.Seed = 13
	cfg.MaxIter = 1
	cfg.Tol = 1e-12

	res, err := Fit(s, cfg)
	require.NoError(t, err)
	require.False(t, res.Converged)
}

func TestBootstrapCIWidthMonotoneInAlpha(t *testing.T) {
	s := kinkSample(t, 80, 40, true)
	rng := rand.New(rand.NewPCG(19, 23))
	opts := OptimizeOptions{MaxIter: 10, Tol: 1e-4, MinSegmentSize: 10, Continuity: true}

	br, err := Bootstrap(s, []float64{40}, 60, rng, opts)
	require.NoError(t, err)

	// The same empirical distribution summarized at a smaller alpha must
	// yield an interval at least as wide.
	narrow := PercentileCIs(br.Samples, 0.20)
	wide := PercentileCIs(br.Samples, 0.01)
	require.Len(t, narrow, 1)
	require.Len(t, wide, 1)
	require.GreaterOrEqual(t, wide[0][1]-wide[0][0], narrow[0][1]-narrow[0][0])
	require.LessOrEqual(t, wide[0][0], narrow[0][0])
	require.GreaterOrEqual(t, wide[0][1], narrow[0][1])
}

func TestBootstrapCountsFallbacks(t *testing.T) {
	s := kinkSample(t, 60, 30, true)
	rng := rand.New(rand.NewPCG(5, 9))
	opts := OptimizeOptions{MaxIter: 10, Tol: 1e-4, MinSegmentSize: 10, Continuity: true}

	br, err := Bootstrap(s, []float64{30}, 20, rng, opts)
	require.NoError(t, err)
	require.Len(t, br.Samples, 20)
	// A well-posed problem runs every trial through the optimizer.
	require.Zero(t, br.Fallbacks)
}

func TestFitWallClockBreakpoints(t *testing.T) {
	n := 60
	base := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	stamps := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		stamps[i] = base.AddDate(0, 0, i)
		x := float64(i)
		if x < 30 {
			values[i] = x
		} else {
			values[i] = 60 - x
		}
	}
	s, err := timeseries.FromTimestamps(stamps, values, nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.NBreakpoints = 1
	cfg.NBootstrap = 0
	cfg.NRestarts = 2

	res, err := Fit(s, cfg)
	require.NoError(t, err)
	require.Len(t, res.BreakpointTimes, 1)
	// The kink sits 30 days after the first observation.
	want := base.AddDate(0, 0, 30)
	require.WithinDuration(t, want, res.BreakpointTimes[0], 5*24*time.Hour)
}

func TestFitInvalidConfig(t *testing.T) {
	s := kinkSample(t, 50, 25, false)

	bad := DefaultConfig()
	bad.Alpha = 0
	_, err := Fit(s, bad)
	require.Error(t, err)

	bad = DefaultConfig()
	bad.NBreakpoints = -1
	_, err = Fit(s, bad)
	require.Error(t, err)

	bad = DefaultConfig()
	bad.NBreakpoints = 4 // needs 50 observations at MinSegmentSize 10
	bad.MinSegmentSize = 11
	_, err = Fit(s, bad)
	require.Error(t, err)
}

func TestPercentileCIsBracketColumns(t *testing.T) {
	samples := [][]float64{
		{10, 50}, {11, 51}, {12, 52}, {13, 53}, {14, 54},
		{15, 55}, {16, 56}, {17, 57}, {18, 58}, {19, 59},
	}
	cis := PercentileCIs(samples, 0.10)
	require.Len(t, cis, 2)
	for j, ci := range cis {
		require.LessOrEqual(t, ci[0], ci[1])
		for _, row := range samples {
			require.GreaterOrEqual(t, row[j], cis[j][0]-10)
			require.LessOrEqual(t, row[j], cis[j][1]+10)
		}
	}
	require.GreaterOrEqual(t, cis[0][0], 10.0)
	require.LessOrEqual(t, cis[0][1], 19.0)
	require.Nil(t, PercentileCIs(nil, 0.10))
}
