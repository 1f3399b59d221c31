package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankIsStableOnTies(t *testing.T) {
	records := []*ScoreRecord{
		{Candidate: &Candidate{ID: "a"}, Scores: Scores{Final: 0.5}},
		{Candidate: &Candidate{ID: "b"}, Scores: Scores{Final: 0.9}},
		{Candidate: &Candidate{ID: "c"}, Scores: Scores{Final: 0.5}},
		{Candidate: &Candidate{ID: "d"}, Scores: Scores{Final: 0.7}},
	}

	table := Rank(records, []string{"id"}, FinalColumn)

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(table))
	assert.Equal(t, "a", records[0].Candidate.ID, "input must not be reordered")
}

func TestTableRecords(t *testing.T) {
	m := 0.5
	rec := &ScoreRecord{
		Candidate: &Candidate{
			ID:         "7",
			Attributes: map[string]string{"id": "7", "name": "Jana"},
			Levels:     map[string]string{"Go": "senior"},
		},
		Scores: Scores{Cosine: 1, Euclidean: 0.8, Manhattan: 0.8, Mahalanobis: &m, Final: 0.7},
	}

	table := Rank([]*ScoreRecord{rec}, []string{"id", "name", "Go_level", "score", "mahalanobis_score", "missing"}, "score")

	assert.Equal(t, [][]string{{"7", "Jana", "senior", "0.70", "0.50", ""}}, table.Records())
}
