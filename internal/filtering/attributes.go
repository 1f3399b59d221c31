package filtering

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skills-matcher/internal/candidates"
)

type attributesFilter struct {
	disabled   bool
	reason     string
	attributes map[string][]string
}

// NewAttributes creates a filter that removes candidates by attribute values
// configured in the config, e.g. people already assigned to a project.
func NewAttributes() Filter {
	return &attributesFilter{}
}

func (f *attributesFilter) Name() string { return "attributes" }

func (f *attributesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *attributesFilter) IsEnabled() bool { return !f.disabled }

func (f *attributesFilter) Validate(cfg *Config) error {
	f.attributes = map[string][]string{}
	if cfg == nil {
		return nil
	}
	for column, values := range cfg.Attributes {
		column = strings.TrimSpace(column)
		if column == "" || len(values) == 0 {
			continue
		}
		f.attributes[column] = append([]string(nil), values...)
	}
	return nil
}

func (f *attributesFilter) columns() []string {
	cols := make([]string, 0, len(f.attributes))
	for col := range f.attributes {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func (f *attributesFilter) Apply(_ context.Context, deps Deps, p *candidates.Pool) (*candidates.Pool, Step, error) {
	initial := p.Len()

	for _, column := range f.columns() {
		excluded := p.Exclude(column, f.attributes[column])
		if deps.Logger != nil && len(excluded) > 0 {
			deps.Logger.Info("excluding candidates by attribute",
				zap.String("column", column),
				zap.Strings("values", f.attributes[column]),
				zap.Strings("excluded_candidates", excluded),
				zap.Int("candidates_left", p.Len()),
			)
		}
	}

	return p, Step{Initial: initial, Dropped: initial - p.Len(), Left: p.Len()}, nil
}

func (f *attributesFilter) Status() Status {
	details := map[string]string{}
	for _, col := range f.columns() {
		details[col] = strings.Join(f.attributes[col], ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
