package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseline(t *testing.T) {
	b, err := NewBaseline([]Requirement{
		{Skill: " Python ", Level: "Medior"},
		{Skill: "SQL", Level: "none", Weight: weight(2.5)},
		{Skill: "Go", Level: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"Python", "SQL", "Go"}, b.Skills())
	assert.Equal(t, []SkillRequirement{
		{Skill: "Python", Level: LevelMedior, Weight: 1},
		{Skill: "SQL", Level: LevelNone, Weight: 2.5},
		{Skill: "Go", Level: LevelNone, Weight: 1},
	}, b.Requirements())
	assert.True(t, b.Has("SQL"))
	assert.False(t, b.Has("Rust"))
}

func TestNewBaselineIsImmutable(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Go", Level: "senior"}})
	require.NoError(t, err)

	reqs := b.Requirements()
	reqs[0].Weight = 10

	assert.Equal(t, 1.0, b.Requirements()[0].Weight)
}

func TestNewBaselineValidation(t *testing.T) {
	tests := []struct {
		name string
		reqs []Requirement
	}{
		{name: "empty", reqs: nil},
		{name: "blank skill", reqs: []Requirement{{Skill: " ", Level: "junior"}}},
		{name: "duplicate skill", reqs: []Requirement{{Skill: "Go"}, {Skill: "Go", Level: "senior"}}},
		{name: "unknown level", reqs: []Requirement{{Skill: "Go", Level: "principal"}}},
		{name: "zero weight", reqs: []Requirement{{Skill: "Go", Weight: weight(0)}}},
		{name: "negative weight", reqs: []Requirement{{Skill: "Go", Weight: weight(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBaseline(tt.reqs)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDisplayColumns(t *testing.T) {
	b, err := NewBaseline([]Requirement{{Skill: "Go"}, {Skill: "SQL"}})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ExtraColumns = []string{"projects", "email", " "}

	assert.Equal(t,
		[]string{"id", "name", "email", "final_score", "Go_level", "SQL_level", "projects"},
		cfg.DisplayColumns(b),
	)
}
