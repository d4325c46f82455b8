package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosegtrend/timeseries"
)

func TestOptimizeZeroBreakpoints(t *testing.T) {
	s := kinkSample(t, 40, 100, false)
	res, err := Optimize(s, 0, nil, OptimizeOptions{
		MaxIter: 10, Tol: 1e-4, MinSegmentSize: 5, Continuity: true,
	})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Empty(t, res.Breakpoints)
}

func TestOptimizeRecoversKink(t *testing.T) {
	s := kinkSample(t, 100, 50, false)
	res, err := Optimize(s, 1, nil, OptimizeOptions{
		MaxIter: 30, Tol: 1e-4, MinSegmentSize: 10, Continuity: true,
	})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Len(t, res.Breakpoints, 1)
	require.InDelta(t, 50.0, res.Breakpoints[0], 2.0)
}

func TestOptimizeWarmStart(t *testing.T) {
	s := kinkSample(t, 100, 50, true)
	res, err := Optimize(s, 1, []float64{30}, OptimizeOptions{
		MaxIter: 30, Tol: 1e-4, MinSegmentSize: 10, Continuity: true,
	})
	require.NoError(t, err)
	require.InDelta(t, 50.0, res.Breakpoints[0], 3.0)
}

func TestOptimizeKeepsBreakpointsOrdered(t *testing.T) {
	// Two kinks: up, flat, down.
	n := 90
	times := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		times[i] = x
		switch {
		case x < 30:
			values[i] = x
		case x < 60:
			values[i] = 30
		default:
			values[i] = 30 - (x - 60)
		}
	}
	s, err := timeseries.New(times, values)
	require.NoError(t, err)

	res, err := Optimize(s, 2, nil, OptimizeOptions{
		MaxIter: 30, Tol: 1e-4, MinSegmentSize: 10, Continuity: true,
	})
	require.NoError(t, err)
	require.Less(t, res.Breakpoints[0], res.Breakpoints[1])
	require.InDelta(t, 30.0, res.Breakpoints[0], 4.0)
	require.InDelta(t, 60.0, res.Breakpoints[1], 4.0)

	ev, err := Evaluate(s, res.Breakpoints, EvalOptions{Continuity: true, MinSegmentSize: 10})
	require.NoError(t, err)
	require.False(t, math.IsInf(ev.Residual, 1))
}

func TestOptimizeStopsAtMaxIter(t *testing.T) {
	s := kinkSample(t, 100, 50, true)
	res, err := Optimize(s, 1, []float64{20}, OptimizeOptions{
		MaxIter: 1, Tol: 1e-12, MinSegmentSize: 10, Continuity: true,
	})
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.Len(t, res.Breakpoints, 1)
}

func TestOptimizeTooFewObservations(t *testing.T) {
	s := kinkSample(t, 15, 8, false)
	_, err := Optimize(s, 2, nil, OptimizeOptions{
		MaxIter: 10, Tol: 1e-4, MinSegmentSize: 10, Continuity: true,
	})
	require.Error(t, err)
}

func TestOptimizeRejectsBadOptions(t *testing.T) {
	s := kinkSample(t, 40, 20, false)

	_, err := Optimize(s, -1, nil, OptimizeOptions{MaxIter: 10, Tol: 1e-4, MinSegmentSize: 5})
	require.Error(t, err)

	_, err = Optimize(s, 1, []float64{10, 20}, OptimizeOptions{MaxIter: 10, Tol: 1e-4, MinSegmentSize: 5})
	require.Error(t, err)

	_, err = Optimize(s, 1, nil, OptimizeOptions{MaxIter: 0, Tol: 1e-4, MinSegmentSize: 5})
	require.Error(t, err)
}
