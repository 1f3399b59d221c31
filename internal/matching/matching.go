// Package matching ranks candidates against a requested skill profile.
//
// Scoring runs in two stages. Candidates sharing no requested skill with
// the baseline are dropped by cosine similarity over presence flags. The
// rest are scored by the distance of their proficiency levels from the
// requested ones under the Euclidean, Manhattan and Mahalanobis metrics.
package matching

import (
	"fmt"
)

// Step describes how many candidates a stage received and dropped.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Stats summarizes a Match invocation.
type Stats struct {
	Overlap         Step
	MahalanobisUsed bool
	CovarianceRank  int
}

// Match scores and ranks the pool against the baseline. It has no side
// effects and keeps no state between calls. A pool with no overlapping
// candidate yields an empty table, not an error.
func Match(b *Baseline, pool []*Candidate, cfg Config) (*Table, *Stats, error) {
	if b == nil {
		return nil, nil, invalid("baseline", "", "is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	table, err := NewPenaltyTable(cfg.XConst)
	if err != nil {
		return nil, nil, err
	}

	indicator, err := BuildIndicatorMatrix(b, pool, cfg.Sentinels)
	if err != nil {
		return nil, nil, fmt.Errorf("building skill index: %w", err)
	}

	records, step := FilterByOverlap(pool, indicator)
	stats := &Stats{Overlap: step}

	columns := cfg.DisplayColumns(b)
	if len(records) == 0 {
		return Rank(nil, columns, cfg.scoreColumn()), stats, nil
	}

	levels, err := EncodeLevels(b, records, table, cfg.Sentinels)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding levels: %w", err)
	}

	dist := AggregateDistances(levels)
	stats.MahalanobisUsed = !dist.Degenerate()
	stats.CovarianceRank = dist.CovarianceRank

	for i, rec := range records {
		rec.Euclidean = dist.Euclidean[i]
		rec.Manhattan = dist.Manhattan[i]
		sum := rec.Euclidean + rec.Manhattan
		n := 2.0
		if !dist.Degenerate() {
			m := dist.Mahalanobis[i]
			rec.Mahalanobis = &m
			sum += m
			n++
		}
		rec.Final = roundScore(sum / n)
	}

	return Rank(records, columns, cfg.scoreColumn()), stats, nil
}
