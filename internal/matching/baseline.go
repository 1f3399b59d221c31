package matching

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWeight applies to a requirement with no weight given.
const DefaultWeight = 1.0

// Requirement is a raw requested skill as it arrives from configuration or a form.
type Requirement struct {
	Skill  string   `json:"skill" mapstructure:"skill"`
	Level  string   `json:"level" mapstructure:"level"`
	Weight *float64 `json:"weight,omitempty" mapstructure:"weight"`
}

// SkillRequirement is a validated requirement.
type SkillRequirement struct {
	Skill  string  `json:"skill"`
	Level  Level   `json:"level"`
	Weight float64 `json:"weight"`
}

// Baseline is the ideal candidate built from the ordered requirements.
// It occupies row 0 of every working matrix.
type Baseline struct {
	reqs []SkillRequirement
}

// NewBaseline validates the requirements and returns an immutable Baseline.
// Order is preserved; skill names must be unique.
func NewBaseline(reqs []Requirement) (*Baseline, error) {
	if len(reqs) == 0 {
		return nil, invalid("requirements", "", "at least one skill is required")
	}

	seen := make(map[string]struct{}, len(reqs))
	out := make([]SkillRequirement, 0, len(reqs))

	for i, r := range reqs {
		name := strings.TrimSpace(r.Skill)
		if name == "" {
			return nil, invalid(fmt.Sprintf("requirements[%d].skill", i), r.Skill, "must not be empty")
		}
		if _, dup := seen[name]; dup {
			return nil, invalid(fmt.Sprintf("requirements[%d].skill", i), name, "duplicate skill")
		}
		seen[name] = struct{}{}

		level, err := ParseLevel(r.Level)
		if err != nil {
			return nil, invalid(fmt.Sprintf("requirements[%d].level", i), r.Level, "must be one of none, junior, medior, senior, mentor")
		}

		weight := DefaultWeight
		if r.Weight != nil {
			weight = *r.Weight
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
			return nil, invalid(fmt.Sprintf("requirements[%d].weight", i), fmt.Sprint(weight), "must be a finite number > 0")
		}

		out = append(out, SkillRequirement{Skill: name, Level: level, Weight: weight})
	}

	return &Baseline{reqs: out}, nil
}

func (b *Baseline) Len() int { return len(b.reqs) }

// Requirements returns a copy of the validated requirements in order.
func (b *Baseline) Requirements() []SkillRequirement {
	out := make([]SkillRequirement, len(b.reqs))
	copy(out, b.reqs)
	return out
}

// Skills returns the requested skill names in order.
func (b *Baseline) Skills() []string {
	names := make([]string, len(b.reqs))
	for i, r := range b.reqs {
		names[i] = r.Skill
	}
	return names
}

// Has reports whether the skill was requested.
func (b *Baseline) Has(skill string) bool {
	for _, r := range b.reqs {
		if r.Skill == skill {
			return true
		}
	}
	return false
}

// LevelColumn is the display column holding a candidate's level for skill.
func LevelColumn(skill string) string {
	return skill + "_level"
}
