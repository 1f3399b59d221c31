package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(v float64) *float64 { return &v }

func candidate(id string, skills map[string]string) *Candidate {
	c := &Candidate{
		ID:         id,
		Attributes: map[string]string{"id": id, "name": "Candidate " + id},
		Presence:   map[string]float64{},
		Levels:     map[string]string{},
	}
	for skill, level := range skills {
		if level == DefaultSentinels.AbsentLevelMissing {
			c.Presence[skill] = 0
		} else {
			c.Presence[skill] = 1
		}
		c.Levels[skill] = level
	}
	return c
}

func ids(t *Table) []string {
	out := make([]string, 0, t.Len())
	for _, rec := range t.Rows {
		out = append(out, rec.Candidate.ID)
	}
	return out
}

func TestMatchEndToEnd(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Python", Level: "medior", Weight: weight(1)}})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("C", map[string]string{"Python": "X"}),
		candidate("B", map[string]string{"Python": "junior"}),
		candidate("A", map[string]string{"Python": "senior"}),
	}

	table, stats, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ids(table))
	assert.Equal(t, Step{Initial: 3, Dropped: 1, Left: 2}, stats.Overlap)
	assert.True(t, stats.MahalanobisUsed)

	a, bb := table.Rows[0], table.Rows[1]
	assert.InDelta(t, 0.8, a.Euclidean, 1e-9)
	assert.InDelta(t, 0.8, a.Manhattan, 1e-9)
	require.NotNil(t, a.Mahalanobis)
	assert.InDelta(t, 0.5, *a.Mahalanobis, 1e-9)
	assert.Equal(t, 0.7, a.Final)

	assert.InDelta(t, 1/1.5, bb.Euclidean, 1e-9)
	require.NotNil(t, bb.Mahalanobis)
	assert.InDelta(t, 1.0/3.0, *bb.Mahalanobis, 1e-9)
	assert.Equal(t, 0.56, bb.Final)
	assert.Greater(t, a.Final, bb.Final)
}

func TestMatchEncodesLevelDistances(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Python", Level: "medior"}})
	require.NoError(t, err)

	records := []*ScoreRecord{
		{Candidate: candidate("A", map[string]string{"Python": "senior"})},
		{Candidate: candidate("B", map[string]string{"Python": "junior"})},
	}
	table, err := NewPenaltyTable(DefaultXConst)
	require.NoError(t, err)

	levels, err := EncodeLevels(b, records, table, DefaultSentinels)
	require.NoError(t, err)

	assert.Equal(t, 0.0, levels.At(0, 0))
	assert.Equal(t, 0.25, levels.At(1, 0))
	assert.Equal(t, 0.5, levels.At(2, 0))
}

func TestMatchDropsZeroOverlap(t *testing.T) {
	b, err := NewBaseline([]Requirement{
		{Skill: "Go", Level: "senior"},
		{Skill: "SQL", Level: ""},
	})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("none", map[string]string{"Go": "X", "SQL": "X"}),
		candidate("go", map[string]string{"Go": "senior", "SQL": "X"}),
		candidate("sql", map[string]string{"Go": "X", "SQL": "N/A level"}),
	}

	table, stats, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)

	assert.NotContains(t, ids(table), "none")
	assert.ElementsMatch(t, []string{"go", "sql"}, ids(table))
	assert.Equal(t, 1, stats.Overlap.Dropped)
	for _, rec := range table.Rows {
		assert.Greater(t, rec.Cosine, 0.0)
		assert.LessOrEqual(t, rec.Cosine, 1.0)
	}
}

func TestMatchIdenticalCandidateScoresOne(t *testing.T) {
	b, err := NewBaseline([]Requirement{
		{Skill: "Go", Level: "senior", Weight: weight(2)},
		{Skill: "SQL", Level: "junior"},
	})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("ideal", map[string]string{"Go": "senior", "SQL": "junior"}),
		candidate("close", map[string]string{"Go": "mentor", "SQL": "medior"}),
		candidate("far", map[string]string{"Go": "junior", "SQL": "X"}),
		candidate("mid", map[string]string{"Go": "medior", "SQL": "N/A level"}),
	}

	table, _, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, "ideal", table.Rows[0].Candidate.ID)
	assert.Equal(t, 1.0, table.Rows[0].Final)
	for _, rec := range table.Rows {
		assert.Greater(t, rec.Final, 0.0)
		assert.LessOrEqual(t, rec.Final, 1.0)
	}
}

func TestMatchDegenerateCovarianceFallsBack(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Python", Level: "none", Weight: weight(1)}})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("a", map[string]string{"Python": "junior"}),
		candidate("b", map[string]string{"Python": "mentor"}),
		candidate("c", map[string]string{"Python": "N/A level"}),
		candidate("d", map[string]string{"Python": ""}),
	}

	table, stats, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, stats.MahalanobisUsed)
	assert.Equal(t, 0, stats.CovarianceRank)
	require.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(table))
	for _, rec := range table.Rows {
		assert.Nil(t, rec.Mahalanobis)
		assert.Equal(t, 1.0, rec.Euclidean)
		assert.Equal(t, 1.0, rec.Manhattan)
		assert.Equal(t, 1.0, rec.Final)
	}
}

func TestMatchTooFewRowsFallsBack(t *testing.T) {
	b, err := NewBaseline([]Requirement{
		{Skill: "Go", Level: "senior"},
		{Skill: "SQL", Level: "medior"},
		{Skill: "K8s", Level: "junior"},
	})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("a", map[string]string{"Go": "senior", "SQL": "junior", "K8s": "X"}),
	}

	table, stats, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, stats.MahalanobisUsed)
	require.Equal(t, 1, table.Len())
	assert.Nil(t, table.Rows[0].Mahalanobis)
}

func TestMatchMonotonicInDistance(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Go", Level: "junior"}})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("absent-but-other", map[string]string{"Go": "N/A level"}),
		candidate("mentor", map[string]string{"Go": "mentor"}),
		candidate("senior", map[string]string{"Go": "senior"}),
		candidate("medior", map[string]string{"Go": "medior"}),
		candidate("junior", map[string]string{"Go": "junior"}),
	}

	table, _, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"junior", "medior", "senior", "mentor", "absent-but-other"}, ids(table))
	for i := 1; i < table.Len(); i++ {
		assert.GreaterOrEqual(t, table.Rows[i-1].Final, table.Rows[i].Final)
	}
}

func TestMatchEmptyAfterOverlap(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Rust", Level: "senior"}})
	require.NoError(t, err)

	pool := []*Candidate{candidate("a", map[string]string{"Rust": "X"})}

	table, stats, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, Step{Initial: 1, Dropped: 1, Left: 0}, stats.Overlap)
}

func TestMatchErrors(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Go", Level: "senior"}})
	require.NoError(t, err)

	t.Run("missing presence column", func(t *testing.T) {
		c := candidate("a", map[string]string{"Java": "senior"})
		_, _, err := Match(b, []*Candidate{c}, DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchema))

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "Go", schemaErr.Column)
	})

	t.Run("missing level column", func(t *testing.T) {
		c := candidate("a", map[string]string{})
		c.Presence["Go"] = 1
		_, _, err := Match(b, []*Candidate{c}, DefaultConfig())
		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "Go_level", schemaErr.Column)
	})

	t.Run("unknown candidate level", func(t *testing.T) {
		c := candidate("a", map[string]string{"Go": "guru"})
		_, _, err := Match(b, []*Candidate{c}, DefaultConfig())
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown level on a candidate without overlap", func(t *testing.T) {
		c := candidate("a", map[string]string{"Go": "X"})
		c.Levels["Go"] = "guru"
		_, _, err := Match(b, []*Candidate{c}, DefaultConfig())
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("absent code on a present skill", func(t *testing.T) {
		c := candidate("a", map[string]string{"Go": "X"})
		c.Presence["Go"] = 1
		_, _, err := Match(b, []*Candidate{c}, DefaultConfig())
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("presence not binary", func(t *testing.T) {
		c := candidate("a", map[string]string{"Go": "senior"})
		c.Presence["Go"] = 0.5
		_, _, err := Match(b, []*Candidate{c}, DefaultConfig())
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("x-const below one", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.XConst = 0.5
		_, _, err := Match(b, nil, cfg)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("nil baseline", func(t *testing.T) {
		_, _, err := Match(nil, nil, DefaultConfig())
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestMatchIsRepeatable(t *testing.T) {
	b, err := NewBaseline([]Requirement{
		{Skill: "Go", Level: "medior"},
		{Skill: "SQL", Level: "senior", Weight: weight(0.5)},
	})
	require.NoError(t, err)

	pool := []*Candidate{
		candidate("a", map[string]string{"Go": "senior", "SQL": "X"}),
		candidate("b", map[string]string{"Go": "junior", "SQL": "mentor"}),
		candidate("c", map[string]string{"Go": "medior", "SQL": "senior"}),
		candidate("d", map[string]string{"Go": "X", "SQL": "medior"}),
	}

	first, _, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)
	second, _, err := Match(b, pool, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first.Records(), second.Records())
}
