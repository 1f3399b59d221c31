package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRunID is the structured log field key for a ranking invocation.
	FieldRunID = "run_id"
	// FieldSkills is the structured log field key for the requested skills.
	FieldSkills = "requested_skills"

	maxSkillsLength = 120
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RunFields describes a ranking run. The skill list is truncated so a long
// request does not flood every log line.
func RunFields(runID string, skills []string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRunID, Value: runID},
		StringField{Key: FieldSkills, Value: TruncateForLog(strings.Join(skills, ","), maxSkillsLength)},
	)
}

// WithRunFields attaches the run fields to the provided logger.
func WithRunFields(logger *zap.Logger, runID string, skills []string) *zap.Logger {
	return WithFields(logger, RunFields(runID, skills)...)
}
