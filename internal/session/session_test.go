package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	golog "github.com/tochemey/goakt/v3/log"
)

func newTestSession(t *testing.T, mutate ...func(*simulation.Config)) *Session {
	t.Helper()
	cfg := simulation.DefaultConfig()
	cfg.WorldWidth = 300
	cfg.WorldHeight = 200
	cfg.MaxSpeed = 50
	cfg.Duration = 3
	cfg.DeltaT = 1
	for _, m := range mutate {
		m(cfg)
	}
	s, err := New(cfg, golog.DiscardLogger, 11)
	require.NoError(t, err)
	return s
}

func testRules(t *testing.T) flock.RuleParameters {
	t.Helper()
	rules, err := flock.NewRuleParameters(40, 10, 0.2, 0.1, 0.01)
	require.NoError(t, err)
	return rules
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.WorldWidth = -1
	_, err := New(cfg, nil, 1)
	assert.ErrorIs(t, err, flock.ErrInvalidParameter)
}

func TestGenerate_RecordsOneSamplePerStep(t *testing.T) {
	s := newTestSession(t)
	run, err := s.Generate(context.Background(), testRules(t), 12)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, 12, run.Size)
	assert.Equal(t, 3, run.Steps())
	assert.Len(t, run.Speeds, 3)
	for i := range run.Distances {
		assert.Greater(t, run.Distances[i].Mean, 0.0)
		assert.GreaterOrEqual(t, run.Distances[i].Sigma, 0.0)
		assert.GreaterOrEqual(t, run.Speeds[i].Sigma, 0.0)
		assert.LessOrEqual(t, run.Speeds[i].Mean, 50.0+1e-9)
	}
	assert.Same(t, run, s.Last())
}

func TestGenerate_RegeneratingStartsOver(t *testing.T) {
	s := newTestSession(t)
	first, err := s.Generate(context.Background(), testRules(t), 10)
	require.NoError(t, err)
	second, err := s.Generate(context.Background(), testRules(t), 20)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Steps())
	assert.Equal(t, 20, s.pop.Len())
}

func TestGenerate_Parallel(t *testing.T) {
	s := newTestSession(t, func(c *simulation.Config) { c.Workers = 4 })
	run, err := s.Generate(context.Background(), testRules(t), 30)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Steps())
}

func TestGenerate_Errors(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	_, err := s.Generate(ctx, testRules(t), 1)
	assert.ErrorIs(t, err, flock.ErrInsufficientData)

	// two boids make a single pair
	_, err = s.Generate(ctx, testRules(t), 2)
	assert.ErrorIs(t, err, flock.ErrInsufficientData)

	_, err = s.Generate(ctx, flock.RuleParameters{Distance: 5, SeparationDistance: 6}, 10)
	assert.ErrorIs(t, err, flock.ErrInvalidParameter)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Generate(cancelled, testRules(t), 10)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Nil(t, s.Last())
}

func TestReport(t *testing.T) {
	s := newTestSession(t)
	var out bytes.Buffer
	require.ErrorIs(t, s.Report(&out), ErrNoRun)

	run, err := s.Generate(context.Background(), testRules(t), 8)
	require.NoError(t, err)
	require.NoError(t, s.Report(&out))

	text := out.String()
	assert.Equal(t, 3, strings.Count(text, "Average distance = "))
	assert.Equal(t, 3, strings.Count(text, "Average speed = "))
	assert.Contains(t, text, "Average distance = "+run.Distances[0].String()+"\n")
}

func TestHistograms(t *testing.T) {
	s := newTestSession(t)
	var out bytes.Buffer

	assert.ErrorIs(t, s.Histograms(&out, 1, 1), ErrNoRun)
	assert.ErrorIs(t, s.Histograms(&out, 0, 1), ErrInvalidNorm)
	assert.ErrorIs(t, s.Histograms(&out, 1, -2), ErrInvalidNorm)

	_, err := s.Generate(context.Background(), testRules(t), 8)
	require.NoError(t, err)
	require.NoError(t, s.Histograms(&out, 10, 1))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "Histogram of mean distances:", lines[0])
	assert.Contains(t, out.String(), "\nHistogram of mean speeds:\n\n")
	rows := 0
	for _, l := range lines {
		if strings.Contains(l, "+-") && strings.Contains(l, "|") {
			rows++
		}
	}
	assert.Equal(t, 6, rows)
}

func TestHistograms_NeedTwoSteps(t *testing.T) {
	s := newTestSession(t, func(c *simulation.Config) { c.Duration = 1 })
	_, err := s.Generate(context.Background(), testRules(t), 8)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Histograms(&bytes.Buffer{}, 1, 1), flock.ErrInsufficientData)
}

func TestHistograms_TinyNormIsAnError(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Generate(context.Background(), testRules(t), 8)
	require.NoError(t, err)

	var out bytes.Buffer
	assert.ErrorIs(t, s.Histograms(&out, 1e-300, 1), flock.ErrInvalidParameter)
	assert.ErrorIs(t, s.Histograms(&out, 1, 1e-300), flock.ErrInvalidParameter)
	assert.Empty(t, out.String(), "nothing is printed when a histogram cannot be drawn")
}
