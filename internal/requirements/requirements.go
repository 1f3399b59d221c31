// Package requirements reads requested skill profiles from documents,
// configuration values and command line values.
package requirements

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/skills-matcher/internal/matching"
)

//go:embed schema.json
var schema []byte

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// SchemaViolationError lists every violation found in a requirements document.
type SchemaViolationError struct {
	Errors []FieldError
}

func (e *SchemaViolationError) Error() string {
	var sb strings.Builder
	sb.WriteString("requirements document is invalid:")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

// LoadFile reads a JSON requirements document.
func LoadFile(path string) ([]matching.Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading requirements %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a JSON document against the requirements schema and decodes it.
func Parse(data []byte) ([]matching.Requirement, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validating requirements document: %w", err)
	}

	if !result.Valid() {
		verr := &SchemaViolationError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, verr
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding requirements document: %w", err)
	}

	return Decode(raw)
}

// Decode converts loosely typed values, such as a viper config subtree or
// form input, into requirements. Weights given as strings are parsed; an
// empty weight keeps the default.
func Decode(input any) ([]matching.Requirement, error) {
	var raw []struct {
		Skill  string `mapstructure:"skill"`
		Level  string `mapstructure:"level"`
		Weight string `mapstructure:"weight"`
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("decoding requirements: %w", err)
	}

	out := make([]matching.Requirement, 0, len(raw))
	for i, r := range raw {
		req := matching.Requirement{Skill: r.Skill, Level: r.Level}
		if w := strings.TrimSpace(r.Weight); w != "" {
			v, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return nil, &matching.ValidationError{
					Field:   fmt.Sprintf("requirements[%d].weight", i),
					Value:   r.Weight,
					Message: "not a number",
				}
			}
			req.Weight = &v
		}
		out = append(out, req)
	}

	return out, nil
}

// ParseFlag parses "Skill", "Skill=level" or "Skill=level:weight".
func ParseFlag(value string) (matching.Requirement, error) {
	name, rest, _ := strings.Cut(value, "=")
	req := matching.Requirement{Skill: strings.TrimSpace(name)}
	if req.Skill == "" {
		return req, &matching.ValidationError{Field: "skill", Value: value, Message: "expected Skill[=level[:weight]]"}
	}

	level, weight, hasWeight := strings.Cut(rest, ":")
	req.Level = strings.TrimSpace(level)

	if hasWeight && strings.TrimSpace(weight) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return req, &matching.ValidationError{Field: "weight", Value: weight, Message: "not a number"}
		}
		req.Weight = &v
	}

	return req, nil
}

// ParseFlags parses each value in order.
func ParseFlags(values []string) ([]matching.Requirement, error) {
	out := make([]matching.Requirement, 0, len(values))
	for _, value := range values {
		req, err := ParseFlag(value)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}
