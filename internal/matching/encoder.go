package matching

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// EncodeLevels builds the weighted level-distance matrix: row 0 is the
// baseline (all zeros), row i+1 is records[i]. Every cell lies in
// [0, weight*X_const].
func EncodeLevels(b *Baseline, records []*ScoreRecord, table *PenaltyTable, s Sentinels) (*mat.Dense, error) {
	reqs := b.Requirements()
	m := mat.NewDense(len(records)+1, len(reqs), nil)

	for i, rec := range records {
		c := rec.Candidate
		for j, req := range reqs {
			raw, ok := c.Levels[req.Skill]
			if !ok {
				return nil, &SchemaError{Candidate: c.ID, Column: LevelColumn(req.Skill)}
			}

			d, err := table.Distance(req.Level, raw, c.HasSkill(req.Skill), s)
			if err != nil {
				return nil, fmt.Errorf("candidate %q skill %q: %w", c.ID, req.Skill, err)
			}
			m.Set(i+1, j, req.Weight*d)
		}
	}

	return m, nil
}
