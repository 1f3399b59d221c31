package matching

import "strings"

// Score column names attached to every ranked record.
const (
	CosineColumn      = "cosine_score"
	EuclideanColumn   = "euclidean_score"
	ManhattanColumn   = "manhattan_score"
	MahalanobisColumn = "mahalanobis_score"
	FinalColumn       = "final_score"
)

// DefaultXConst is the absence penalty used when none is configured.
const DefaultXConst = 2.0

// Config holds everything Match needs besides the baseline and the pool.
type Config struct {
	XConst    float64
	Sentinels Sentinels

	// DefaultColumns come first in the display projection, followed by one
	// level column per requested skill, then ExtraColumns.
	DefaultColumns []string
	ExtraColumns   []string
	// ScoreColumn names the final score in the projection. Defaults to FinalColumn.
	ScoreColumn string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		XConst:         DefaultXConst,
		Sentinels:      DefaultSentinels,
		DefaultColumns: []string{"id", "name", "email", FinalColumn},
		ScoreColumn:    FinalColumn,
	}
}

// Validate checks X_const and the sentinel codes.
func (c Config) Validate() error {
	if _, err := NewPenaltyTable(c.XConst); err != nil {
		return err
	}
	return c.Sentinels.validate()
}

func (c Config) scoreColumn() string {
	if s := strings.TrimSpace(c.ScoreColumn); s != "" {
		return s
	}
	return FinalColumn
}

// DisplayColumns returns the projection for the given baseline with
// duplicates removed, keeping first occurrence.
func (c Config) DisplayColumns(b *Baseline) []string {
	all := make([]string, 0, len(c.DefaultColumns)+b.Len()+len(c.ExtraColumns))
	all = append(all, c.DefaultColumns...)
	for _, skill := range b.Skills() {
		all = append(all, LevelColumn(skill))
	}
	all = append(all, c.ExtraColumns...)

	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, col := range all {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	return out
}
