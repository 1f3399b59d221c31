package filtering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skills-matcher/internal/candidates"
)

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes candidates listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, p *candidates.Pool) (*candidates.Pool, Step, error) {
	initial := p.Len()
	if f.path == "" {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded, err := candidates.GetExcludedFromFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		if deps.Logger != nil {
			deps.Logger.Debug("exclude file does not exist yet", zap.String("path", f.path))
		}
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}
	if err != nil {
		return p, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := p.Exclude(candidates.DefaultIDColumn, excluded.IDs())
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
