package matching

import (
	"sort"
	"strconv"
)

// Scores are the similarity scores of one candidate against the baseline.
// Every score lies in (0,1].
type Scores struct {
	Cosine      float64  `json:"cosine_score"`
	Euclidean   float64  `json:"euclidean_score"`
	Manhattan   float64  `json:"manhattan_score"`
	Mahalanobis *float64 `json:"mahalanobis_score,omitempty"`
	Final       float64  `json:"final_score"`
}

// ScoreRecord is a candidate that passed the overlap filter, with its scores.
type ScoreRecord struct {
	Candidate *Candidate `json:"candidate"`
	Scores
}

// Table is the ranked output: records sorted by final score, descending,
// projected onto Columns.
type Table struct {
	Columns     []string       `json:"columns"`
	ScoreColumn string         `json:"score_column"`
	Rows        []*ScoreRecord `json:"rows"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Value returns the display value of a column for a ranked record. Score
// columns are formatted; level columns come from the candidate levels;
// anything else is a candidate attribute.
func (t *Table) Value(rec *ScoreRecord, column string) string {
	switch column {
	case t.ScoreColumn, FinalColumn:
		return formatScore(rec.Final)
	case CosineColumn:
		return formatScore(rec.Cosine)
	case EuclideanColumn:
		return formatScore(rec.Euclidean)
	case ManhattanColumn:
		return formatScore(rec.Manhattan)
	case MahalanobisColumn:
		if rec.Mahalanobis == nil {
			return ""
		}
		return formatScore(*rec.Mahalanobis)
	}

	if v, ok := rec.Candidate.Attribute(column); ok {
		return v
	}

	for skill, level := range rec.Candidate.Levels {
		if LevelColumn(skill) == column {
			return level
		}
	}

	return ""
}

// Records returns the projected rows in rank order.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, rec := range t.Rows {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = t.Value(rec, col)
		}
		out = append(out, row)
	}
	return out
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Rank sorts the scored records by final score, descending. Ties keep the
// order they arrived in.
func Rank(records []*ScoreRecord, columns []string, scoreColumn string) *Table {
	sorted := make([]*ScoreRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Final > sorted[j].Final
	})

	return &Table{
		Columns:     columns,
		ScoreColumn: scoreColumn,
		Rows:        sorted,
	}
}
