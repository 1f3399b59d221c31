package matching

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Distances holds baseline-to-candidate similarity scores per metric, one
// entry per candidate row of the level matrix.
type Distances struct {
	Euclidean   []float64
	Manhattan   []float64
	Mahalanobis []float64 // nil when the covariance matrix is singular

	CovarianceRank int
}

// Degenerate reports whether the Mahalanobis metric was left out.
func (d *Distances) Degenerate() bool {
	return d.Mahalanobis == nil
}

// inverseDistance maps a per-skill average distance into (0,1].
func inverseDistance(raw float64, skills int) float64 {
	return 1 / (raw/float64(skills) + 1)
}

// AggregateDistances computes the Euclidean, Manhattan and, when the
// covariance of the level matrix is invertible, Mahalanobis similarity of
// every candidate row against the baseline row.
func AggregateDistances(levels *mat.Dense) *Distances {
	rows, skills := levels.Dims()
	out := &Distances{
		Euclidean: make([]float64, 0, rows-1),
		Manhattan: make([]float64, 0, rows-1),
	}
	if rows < 2 || skills == 0 {
		return out
	}

	baseline := mat.Row(nil, 0, levels)
	for i := 1; i < rows; i++ {
		row := mat.Row(nil, i, levels)
		out.Euclidean = append(out.Euclidean, inverseDistance(floats.Distance(baseline, row, 2), skills))
		out.Manhattan = append(out.Manhattan, inverseDistance(floats.Distance(baseline, row, 1), skills))
	}

	chol, rank := covarianceFactor(levels)
	out.CovarianceRank = rank
	if chol == nil {
		return out
	}

	base := levels.RowView(0)
	out.Mahalanobis = make([]float64, 0, rows-1)
	for i := 1; i < rows; i++ {
		d := stat.Mahalanobis(base, levels.RowView(i), chol)
		out.Mahalanobis = append(out.Mahalanobis, inverseDistance(d, skills))
	}

	return out
}

// covarianceFactor returns the Cholesky factor of the sample covariance of
// the level matrix rows together with its numerical rank. The factor is nil
// when the covariance is singular: too few rows, rank below the number of
// skills, or not positive definite.
func covarianceFactor(levels *mat.Dense) (*mat.Cholesky, int) {
	rows, skills := levels.Dims()
	if rows < 2 {
		return nil, 0
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, levels, nil)

	rank := numericalRank(&cov)
	if rows <= skills || rank < skills {
		return nil, rank
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(&cov); !ok {
		return nil, rank
	}
	return &chol, rank
}

// numericalRank counts singular values above max(σ)·n·ε.
func numericalRank(a mat.Matrix) int {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDNone); !ok {
		return 0
	}

	values := svd.Values(nil)
	if len(values) == 0 {
		return 0
	}

	r, c := a.Dims()
	tol := floats.Max(values) * float64(max(r, c)) * epsilon

	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	return rank
}

var epsilon = math.Nextafter(1, 2) - 1

// roundScore rounds half to even at two decimals.
func roundScore(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
