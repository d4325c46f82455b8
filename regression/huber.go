package regression

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearFit holds one fitted line and its residual summaries.
type LinearFit struct {
	Intercept   float64
	Slope       float64
	AbsResidual float64 // sum of absolute residuals
	SSE         float64 // sum of squared residuals
	N           int
}

// huberK is the standard tuning constant giving 95% efficiency under
// Gaussian noise.
const huberK = 1.345

// OLS fits y = a + b*t by ordinary least squares.
func OLS(t, y []float64) (*LinearFit, error) {
	if len(t) != len(y) || len(t) < 2 {
		return nil, errors.New("regression: need at least two points")
	}
	a, b := stat.LinearRegression(t, y, nil, false)
	if math.IsNaN(a) || math.IsNaN(b) {
		return nil, errors.New("regression: singular fit")
	}
	fit := &LinearFit{Intercept: a, Slope: b, N: len(t)}
	for i := range t {
		r := y[i] - (a + b*t[i])
		fit.AbsResidual += math.Abs(r)
		fit.SSE += r * r
	}
	return fit, nil
}

// Huber fits y = a + b*t with the Huber loss via iteratively reweighted
// least squares. The loss is quadratic for residuals within k*scale and
// linear beyond, with the scale re-estimated from the residual MAD each
// iteration.
func Huber(t, y []float64) (*LinearFit, error) {
	n := len(t)
	if len(y) != n || n < 2 {
		return nil, errors.New("regression: need at least two points")
	}

	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, t[i])
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := solveWeighted(x, yv, nil, &beta); err != nil {
		return nil, err
	}

	const maxIter = 50
	const tol = 1e-8
	resid := make([]float64, n)
	weights := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		a, b := beta.AtVec(0), beta.AtVec(1)
		for i := 0; i < n; i++ {
			resid[i] = y[i] - (a + b*t[i])
		}
		scale := madScale(resid)
		if scale == 0 {
			break
		}
		threshold := huberK * scale
		for i, r := range resid {
			if ar := math.Abs(r); ar > threshold {
				weights[i] = threshold / ar
			} else {
				weights[i] = 1
			}
		}
		var next mat.VecDense
		if err := solveWeighted(x, yv, weights, &next); err != nil {
			return nil, err
		}
		delta := math.Abs(next.AtVec(0)-a) + math.Abs(next.AtVec(1)-b)
		beta = next
		if delta < tol {
			break
		}
	}

	fit := &LinearFit{Intercept: beta.AtVec(0), Slope: beta.AtVec(1), N: n}
	for i := 0; i < n; i++ {
		r := y[i] - (fit.Intercept + fit.Slope*t[i])
		fit.AbsResidual += math.Abs(r)
		fit.SSE += r * r
	}
	return fit, nil
}

// solveWeighted solves the (optionally weighted) least-squares problem
// X*beta ~ y by QR on the sqrt-weight-scaled system.
func solveWeighted(x *mat.Dense, y *mat.VecDense, weights []float64, beta *mat.VecDense) error {
	r, c := x.Dims()
	xs := x
	ys := y
	if weights != nil {
		scaled := mat.NewDense(r, c, nil)
		yw := mat.NewVecDense(r, nil)
		for i := 0; i < r; i++ {
			w := math.Sqrt(weights[i])
			for j := 0; j < c; j++ {
				scaled.Set(i, j, w*x.At(i, j))
			}
			yw.SetVec(i, w*y.AtVec(i))
		}
		xs, ys = scaled, yw
	}

	var qr mat.QR
	qr.Factorize(xs)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, ys); err != nil {
		return errors.New("regression: singular fit")
	}
	beta.CloneFromVec(sol.ColView(0))
	return nil
}

// madScale estimates the residual scale as MAD/0.6745.
func madScale(resid []float64) float64 {
	abs := make([]float64, len(resid))
	for i, r := range resid {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	var med float64
	n := len(abs)
	if n%2 == 0 {
		med = (abs[n/2-1] + abs[n/2]) / 2
	} else {
		med = abs[n/2]
	}
	return med / 0.6745
}
