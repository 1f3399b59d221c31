package filtering

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skills-matcher/internal/candidates"
)

const pool = `id,name,Go,Go_level,on_project
1,Jana,1,senior,no
2,Petr,1,junior,yes
3,Eva,0,,no
4,Adam,1,mentor,no
`

func loadPool(t *testing.T) *candidates.Pool {
	t.Helper()
	p, err := candidates.LoadCSV(strings.NewReader(pool), "id")
	require.NoError(t, err)
	return p
}

func TestRunAppliesFiltersInOrder(t *testing.T) {
	excludePath := filepath.Join(t.TempDir(), "excluded.json")
	require.NoError(t, candidates.ToExcluded([]string{"4"}, nil, "contacted").ToFile(excludePath))

	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{Logger: zap.New(core)}

	cfg := &Config{
		ExcludeFile: excludePath,
		Attributes:  map[string][]string{"on_project": {"yes"}},
	}

	steps := []Filter{NewAttributes(), NewExcludeFile()}
	p, err := Run(context.Background(), cfg, deps, steps, loadPool(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, p.IDs())

	stepLogs := observed.FilterMessage("filter step").All()
	require.Len(t, stepLogs, 2)
	assert.Equal(t, "attributes", stepLogs[0].ContextMap()["name"])
	assert.Equal(t, int64(1), stepLogs[0].ContextMap()["dropped"])
	assert.Equal(t, "exclude_file", stepLogs[1].ContextMap()["name"])
	assert.Equal(t, int64(2), stepLogs[1].ContextMap()["left"])
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{Logger: zap.New(core)}

	steps := []Filter{NewAttributes(), NewExcludeFile()}
	DisableByName(steps, "attributes", "requested via flag")

	cfg := &Config{Attributes: map[string][]string{"on_project": {"yes"}}}
	p, err := Run(context.Background(), cfg, deps, steps, loadPool(t))
	require.NoError(t, err)

	assert.Equal(t, 4, p.Len())
	assert.Equal(t, 1, observed.FilterMessage("filter disabled").Len())

	statuses := Describe(steps)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "requested via flag", statuses[0].Reason)
	assert.True(t, statuses[1].Enabled)
}

func TestExcludeFileMissingIsNotAnError(t *testing.T) {
	cfg := &Config{ExcludeFile: filepath.Join(t.TempDir(), "nope.json")}

	p, err := Run(context.Background(), cfg, Deps{}, []Filter{NewExcludeFile()}, loadPool(t))
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, &Config{}, Deps{}, []Filter{NewAttributes()}, loadPool(t))
	assert.ErrorIs(t, err, context.Canceled)
}
