package matching

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BuildIndicatorMatrix returns the 0/1 presence matrix over the requested
// skills: row 0 is the all-ones baseline, row i+1 is pool[i].
//
// It also verifies every candidate, including those the overlap filter will
// drop: each must carry a presence flag of 0 or 1 and a recognized level for
// every requested skill.
func BuildIndicatorMatrix(b *Baseline, pool []*Candidate, s Sentinels) (*mat.Dense, error) {
	skills := b.Skills()
	m := mat.NewDense(len(pool)+1, len(skills), nil)

	for j := range skills {
		m.Set(0, j, 1)
	}

	for i, c := range pool {
		if c == nil {
			return nil, invalid(fmt.Sprintf("candidates[%d]", i), "", "nil candidate")
		}
		for j, skill := range skills {
			flag, ok := c.Presence[skill]
			if !ok {
				return nil, &SchemaError{Candidate: c.ID, Column: skill}
			}
			level, ok := c.Levels[skill]
			if !ok {
				return nil, &SchemaError{Candidate: c.ID, Column: LevelColumn(skill)}
			}
			if flag != 0 && flag != 1 {
				return nil, invalid(fmt.Sprintf("candidate %q presence %s", c.ID, skill), fmt.Sprint(flag), "must be 0 or 1")
			}
			if _, err := classify(level, flag == 1, s); err != nil {
				return nil, fmt.Errorf("candidate %q skill %q: %w", c.ID, skill, err)
			}
			m.Set(i+1, j, flag)
		}
	}

	return m, nil
}
