package hybrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosegtrend/timeseries"
)

func kinkSample(t *testing.T, n int, kink float64, ripple bool) *timeseries.Sample {
	t.Helper()
	times := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		times[i] = x
		if x < kink {
			values[i] = 10 + x
		} else {
			values[i] = 10 + 2*kink - x
		}
		if ripple {
			values[i] += float64(i%5-2) / 50
		}
	}
	s, err := timeseries.New(times, values)
	require.NoError(t, err)
	return s
}

func TestFitSearchFindsKink(t *testing.T) {
	s := kinkSample(t, 80, 40, true)
	res, err := Fit(s, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.NBreakpoints)
	require.InDelta(t, 40.0, res.Breakpoints[0], 3.0)
	require.Len(t, res.Segments, 2)
	require.InDelta(t, 1.0, res.Segments[0].Slope, 0.2)
	require.InDelta(t, -1.0, res.Segments[1].Slope, 0.2)
	require.False(t, math.IsInf(res.BIC, 0))
}

func TestFitLinearPrefersZero(t *testing.T) {
	n := 60
	times := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = float64(i)
		values[i] = 5 + 0.3*float64(i) + float64(i%5-2)/50
	}
	s, err := timeseries.New(times, values)
	require.NoError(t, err)

	res, err := Fit(s, nil)
	require.NoError(t, err)
	require.Equal(t, 0, res.NBreakpoints)
	require.Len(t, res.Segments, 1)
	require.InDelta(t, 0.3, res.Segments[0].Slope, 0.05)
}

func TestFitFixedK(t *testing.T) {
	s := kinkSample(t, 80, 40, false)
	cfg := DefaultConfig()
	cfg.FixedK = 1

	res, err := Fit(s, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, res.NBreakpoints)
	require.InDelta(t, 40.0, res.Breakpoints[0], 1.0)
	require.InDelta(t, 1.0, res.Segments[0].Slope, 1e-9)
	require.InDelta(t, -1.0, res.Segments[1].Slope, 1e-9)
}

func TestFitCensoredObservations(t *testing.T) {
	// Phase 1 sees detection-limit stand-ins for the censored points;
	// phase 2 reports robust statistics from the original observations.
	s := kinkSample(t, 80, 40, true)
	for _, i := range []int{3, 11, 22, 47, 58, 71} {
		s.Censoring[i] = timeseries.LeftCensored
	}

	res, err := Fit(s, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.NBreakpoints, 1)
	require.Len(t, res.Segments, res.NBreakpoints+1)

	nearKink := false
	for _, b := range res.Breakpoints {
		if b > 33 && b < 47 {
			nearKink = true
		}
	}
	require.True(t, nearKink, "some breakpoint should land near the kink, got %v", res.Breakpoints)
}

func TestFitInfeasibleFixedK(t *testing.T) {
	s := kinkSample(t, 25, 12, false)
	cfg := DefaultConfig()
	cfg.FixedK = 3 // needs 40 observations at MinSegmentSize 10

	_, err := Fit(s, cfg)
	require.ErrorIs(t, err, ErrNoModel)
}

func TestFitInvalidConfig(t *testing.T) {
	s := kinkSample(t, 40, 20, false)

	cfg := DefaultConfig()
	cfg.Alpha = 0
	_, err := Fit(s, cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.MinSegmentSize = 1
	_, err = Fit(s, cfg)
	require.Error(t, err)

	tiny, err := timeseries.New([]float64{1}, []float64{1})
	require.NoError(t, err)
	_, err = Fit(tiny, nil)
	require.Error(t, err)
}
