package matching

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// cosine returns 0 when either vector is all zeros.
func cosine(a, b []float64) float64 {
	denom := floats.Norm(a, 2) * floats.Norm(b, 2)
	if denom == 0 {
		return 0
	}
	return floats.Dot(a, b) / denom
}

// CosineScores returns the cosine similarity of every candidate row of the
// indicator matrix against the baseline row.
func CosineScores(indicator *mat.Dense) []float64 {
	rows, _ := indicator.Dims()
	if rows == 0 {
		return nil
	}

	baseline := mat.Row(nil, 0, indicator)
	scores := make([]float64, rows-1)
	for i := 1; i < rows; i++ {
		scores[i-1] = cosine(baseline, mat.Row(nil, i, indicator))
	}
	return scores
}

// FilterByOverlap drops candidates sharing no requested skill with the
// baseline. Survivors keep their pool order and carry their cosine score.
func FilterByOverlap(pool []*Candidate, indicator *mat.Dense) ([]*ScoreRecord, Step) {
	scores := CosineScores(indicator)
	kept := make([]*ScoreRecord, 0, len(pool))

	for i, c := range pool {
		if scores[i] <= 0 {
			continue
		}
		kept = append(kept, &ScoreRecord{Candidate: c, Scores: Scores{Cosine: scores[i]}})
	}

	return kept, Step{Initial: len(pool), Dropped: len(pool) - len(kept), Left: len(kept)}
}
