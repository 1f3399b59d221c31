package matching

import (
	"fmt"
	"math"
)

// absentPenalty is substituted with X_const when a table is built.
const absentPenalty = -1

// Pre-weight distances indexed by target level, then candidate class.
// Overqualification costs less than underqualification for the same gap.
var basePenalties = map[Level][numClasses]float64{
	LevelJunior: {0, 0.25, 0.5, 0.75, 1, absentPenalty},
	LevelMedior: {0.5, 0, 0.25, 0.75, 1, absentPenalty},
	LevelSenior: {0.75, 0.5, 0, 0.25, 1, absentPenalty},
	LevelMentor: {0.75, 0.5, 0.25, 0, 1, absentPenalty},
	LevelNone:   {0, 0, 0, 0, 0, absentPenalty},
}

// PenaltyTable maps (target level, candidate level) to a pre-weight
// mismatch distance. It is immutable once built.
type PenaltyTable struct {
	xConst float64
	rows   map[Level][numClasses]float64
}

// NewPenaltyTable builds the lookup table for the given X_const.
func NewPenaltyTable(xConst float64) (*PenaltyTable, error) {
	if math.IsNaN(xConst) || math.IsInf(xConst, 0) || xConst < 1 {
		return nil, invalid("x-const", fmt.Sprint(xConst), "must be a finite number >= 1")
	}

	rows := make(map[Level][numClasses]float64, len(basePenalties))
	for target, base := range basePenalties {
		row := base
		for i, v := range row {
			if v == absentPenalty {
				row[i] = xConst
			}
		}
		rows[target] = row
	}

	return &PenaltyTable{xConst: xConst, rows: rows}, nil
}

// XConst returns the penalty for total absence of a requested skill.
func (t *PenaltyTable) XConst() float64 { return t.xConst }

func (t *PenaltyTable) lookup(target Level, class candidateClass) float64 {
	return t.rows[target][class]
}

// Distance returns the pre-weight distance of a candidate level against the
// target level. The candidate level may be a ranked level or a sentinel code.
func (t *PenaltyTable) Distance(target Level, candidateLevel string, present bool, s Sentinels) (float64, error) {
	class, err := classify(candidateLevel, present, s)
	if err != nil {
		return 0, err
	}
	return t.lookup(target, class), nil
}

// Row returns the distances for one target level keyed by candidate level,
// with the sentinel codes as keys for the two missing-level columns.
func (t *PenaltyTable) Row(target Level, s Sentinels) map[string]float64 {
	row := t.rows[target]
	out := make(map[string]float64, numClasses)
	for _, level := range Levels {
		out[string(level)] = row[levelClasses[level]]
	}
	out[s.PresentLevelMissing] = row[classPresentNoLevel]
	out[s.AbsentLevelMissing] = row[classAbsentNoLevel]
	return out
}
