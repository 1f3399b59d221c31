// Package candidates loads candidate pools and shapes them into the form
// the matching engine expects.
package candidates

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/skills-matcher/internal/matching"
)

const DefaultIDColumn = "id"

// Pool is a loaded candidate table.
type Pool struct {
	// Columns keeps the source header order.
	Columns []string
	// Skills are the columns that have a matching "<skill>_level" column.
	Skills     []string
	Candidates []*matching.Candidate
}

func (p *Pool) Len() int {
	return len(p.Candidates)
}

// IDs returns candidate ids in pool order.
func (p *Pool) IDs() []string {
	ids := make([]string, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

// FindByID returns nil when no candidate has the id.
func (p *Pool) FindByID(id string) *matching.Candidate {
	for _, c := range p.Candidates {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Exclude removes candidates whose attribute column equals one of targets
// and returns the removed ids. The id column is matched against the
// candidate id. Pool order is preserved.
func (p *Pool) Exclude(column string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[strings.TrimSpace(t)] = struct{}{}
	}

	var excluded []string
	kept := p.Candidates[:0]
	for _, c := range p.Candidates {
		value := c.ID
		if column != DefaultIDColumn {
			value, _ = c.Attribute(column)
		}
		if _, ok := set[strings.TrimSpace(value)]; ok {
			excluded = append(excluded, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	p.Candidates = kept

	return excluded
}

// Normalize backfills every requested skill a candidate lacks with
// presence 0 and an empty level, then replaces empty levels of every known
// skill with the sentinel codes according to presence. It returns the
// requested skills that had to be backfilled for at least one candidate.
func (p *Pool) Normalize(requested []string, s matching.Sentinels) []string {
	var backfilled []string
	skills := p.Skills

	for _, skill := range requested {
		if !contains(skills, skill) {
			skills = append(skills, skill)
		}
	}

	for _, c := range p.Candidates {
		if c.Presence == nil {
			c.Presence = map[string]float64{}
		}
		if c.Levels == nil {
			c.Levels = map[string]string{}
		}

		for _, skill := range requested {
			_, hasPresence := c.Presence[skill]
			_, hasLevel := c.Levels[skill]
			if !hasPresence {
				c.Presence[skill] = 0
			}
			if !hasLevel {
				c.Levels[skill] = ""
			}
			if (!hasPresence || !hasLevel) && !contains(backfilled, skill) {
				backfilled = append(backfilled, skill)
			}
		}

		for _, skill := range skills {
			level, ok := c.Levels[skill]
			if !ok || strings.TrimSpace(level) != "" {
				continue
			}
			if c.HasSkill(skill) {
				c.Levels[skill] = s.PresentLevelMissing
			} else {
				c.Levels[skill] = s.AbsentLevelMissing
			}
		}
	}

	p.Skills = skills
	return backfilled
}

// AnnotateOtherSkills stores, under column, a summary of the skills each
// candidate has beyond the requested ones, e.g. "Java (Senior) / SQL".
// Skills are shown under their display names.
func (p *Pool) AnnotateOtherSkills(column string, requested []string, s matching.Sentinels, names SkillNames) {
	for _, c := range p.Candidates {
		if c.Attributes == nil {
			c.Attributes = map[string]string{}
		}
		c.Attributes[column] = OtherSkills(c, p.Skills, requested, s, names)
	}
}

// OtherSkills lists the known skills the candidate has that were not requested.
func OtherSkills(c *matching.Candidate, known, requested []string, s matching.Sentinels, names SkillNames) string {
	parts := make([]string, 0)
	for _, skill := range known {
		if contains(requested, skill) || !c.HasSkill(skill) {
			continue
		}

		name := names.Display(skill)
		level := DisplayLevel(c.Levels[skill], s)
		if level == "" || level == s.PresentLevelMissing || level == s.AbsentLevelMissing {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, name+" ("+level+")")
	}
	return strings.Join(parts, " / ")
}

// DisplayLevel title-cases ranked levels and leaves sentinel codes as they are.
func DisplayLevel(level string, s matching.Sentinels) string {
	trimmed := strings.TrimSpace(level)
	if trimmed == s.PresentLevelMissing || trimmed == s.AbsentLevelMissing {
		return trimmed
	}
	return cases.Title(language.Und).String(strings.ToLower(trimmed))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func detectSkills(columns []string) []string {
	set := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		set[col] = struct{}{}
	}

	skills := make([]string, 0)
	for _, col := range columns {
		if _, ok := set[matching.LevelColumn(col)]; ok {
			skills = append(skills, col)
		}
	}
	return skills
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
