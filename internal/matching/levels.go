package matching

import (
	"strings"
)

// Level is a proficiency level. LevelNone on a requirement means any
// proficiency is accepted.
type Level string

const (
	LevelNone   Level = ""
	LevelJunior Level = "junior"
	LevelMedior Level = "medior"
	LevelSenior Level = "senior"
	LevelMentor Level = "mentor"
)

// Levels lists the ranked proficiency levels from lowest to highest.
var Levels = []Level{LevelJunior, LevelMedior, LevelSenior, LevelMentor}

// String returns "none" for LevelNone.
func (l Level) String() string {
	if l == LevelNone {
		return "none"
	}
	return string(l)
}

// ParseLevel accepts the four ranked levels plus "" and "none", case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "none":
		return LevelNone, nil
	case string(LevelJunior), string(LevelMedior), string(LevelSenior), string(LevelMentor):
		return Level(v), nil
	default:
		return LevelNone, invalid("level", s, "must be one of none, junior, medior, senior, mentor")
	}
}

// Sentinels are the level codes a normalized pool uses when a candidate
// has no level recorded for a skill.
type Sentinels struct {
	// PresentLevelMissing marks a skill the candidate has without a level.
	PresentLevelMissing string
	// AbsentLevelMissing marks a skill the candidate does not have.
	AbsentLevelMissing string
}

// DefaultSentinels are the codes skills spreadsheets conventionally use.
var DefaultSentinels = Sentinels{
	PresentLevelMissing: "N/A level",
	AbsentLevelMissing:  "X",
}

func (s Sentinels) validate() error {
	present := strings.TrimSpace(s.PresentLevelMissing)
	absent := strings.TrimSpace(s.AbsentLevelMissing)
	if present == "" {
		return invalid("sentinels.skill-present-level-missing", s.PresentLevelMissing, "must not be empty")
	}
	if absent == "" {
		return invalid("sentinels.skill-absent-level-missing", s.AbsentLevelMissing, "must not be empty")
	}
	if present == absent {
		return invalid("sentinels", present, "present and absent codes must differ")
	}
	for _, code := range []string{present, absent} {
		if _, err := ParseLevel(code); err == nil {
			return invalid("sentinels", code, "must not collide with a level name")
		}
	}
	return nil
}

// candidateClass is the column index of a candidate level in the penalty table.
type candidateClass int

const (
	classJunior candidateClass = iota
	classMedior
	classSenior
	classMentor
	classPresentNoLevel
	classAbsentNoLevel
	numClasses
)

var levelClasses = map[Level]candidateClass{
	LevelJunior: classJunior,
	LevelMedior: classMedior,
	LevelSenior: classSenior,
	LevelMentor: classMentor,
}

// classify resolves a raw candidate level. An empty level is resolved from
// the presence flag the same way pool normalization does it. A sentinel code
// must agree with the presence flag.
func classify(raw string, present bool, s Sentinels) (candidateClass, error) {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "":
		if present {
			return classPresentNoLevel, nil
		}
		return classAbsentNoLevel, nil
	case strings.TrimSpace(s.PresentLevelMissing):
		if !present {
			return 0, invalid("candidate level", raw, "skill marked present-without-level but presence is 0")
		}
		return classPresentNoLevel, nil
	case strings.TrimSpace(s.AbsentLevelMissing):
		if present {
			return 0, invalid("candidate level", raw, "skill marked absent but presence is 1")
		}
		return classAbsentNoLevel, nil
	}

	if class, ok := levelClasses[Level(strings.ToLower(trimmed))]; ok {
		return class, nil
	}

	return 0, invalid("candidate level", raw, "not a known level or sentinel code")
}
