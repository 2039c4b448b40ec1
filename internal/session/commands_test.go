package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, s *Session, script string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := s.Run(context.Background(), strings.NewReader(script), &out)
	return out.String(), err
}

func TestRun_Script(t *testing.T) {
	s := newTestSession(t)
	out, err := runScript(t, s, strings.Join([]string{
		"s",
		"x",
		"",
		"g 40 10 0.2 0.1 0.01 10",
		"s",
		"h 10 1",
		"q",
		"g 40 10 0.2 0.1 0.01 10",
	}, "\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Valid commands:"))
	assert.Contains(t, out, "Error: "+ErrNoRun.Error())
	assert.Contains(t, out, "Bad format, insert a new command\n")
	assert.Equal(t, 1, strings.Count(out, "Data generated successfully"))
	assert.Equal(t, 3, strings.Count(out, "Average distance = "))
	assert.Contains(t, out, "Histogram of mean distances:")
	assert.Contains(t, out, "Histogram of mean speeds:")
}

func TestRun_InteractiveGenerate(t *testing.T) {
	s := newTestSession(t)
	out, err := runScript(t, s, "g\n40 10 0.2 0.1 0.01\n6\nq\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Input the parameters: d, ds, s, a, c")
	assert.Contains(t, out, "Input the number of boids: ")
	assert.Contains(t, out, "Data generated successfully")
	require.NotNil(t, s.Last())
	assert.Equal(t, 6, s.Last().Size)
}

func TestRun_ErrorsKeepTheLoopAlive(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"missing argument", "g 40 10 0.2 0.1 0.01", "Bad format"},
		{"not a number", "g 40 ten 0.2 0.1 0.01 10", "Bad format"},
		{"separation not below distance", "g 10 10 0.2 0.1 0.01 10", "Error: invalid parameter"},
		{"weight out of range", "g 40 10 2 0.1 0.01 10", "Error: invalid parameter"},
		{"one boid", "g 40 10 0.2 0.1 0.01 1", "Error: not enough entries"},
		{"null norm", "h 0 1", "Error: norms need to be positive"},
		{"norm too small for a bar", "g 40 10 0.2 0.1 0.01 5\nh 1e-300 1", "Error: distances: invalid parameter"},
		{"histogram arity", "h 1", "Bad format"},
		{"stats arity", "s 1", "Bad format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			out, err := runScript(t, s, tt.line+"\ng 40 10 0.2 0.1 0.01 5\nq\n")
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "Data generated successfully")
		})
	}
}

func TestRun_EndOfInput(t *testing.T) {
	s := newTestSession(t)
	_, err := runScript(t, s, "help\n")
	assert.NoError(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, strings.NewReader("s\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

var errClosed = errors.New("closed")

// limitedWriter accepts n writes, then fails.
type limitedWriter struct{ n int }

func (w *limitedWriter) Write(b []byte) (int, error) {
	if w.n == 0 {
		return 0, errClosed
	}
	w.n--
	return len(b), nil
}

func TestRun_StopsOnWriteError(t *testing.T) {
	tests := []struct {
		name   string
		writes int
		script string
	}{
		{"usage", 0, "help\n"},
		{"help", 1, "help\nq\n"},
		{"bad format", 1, "x\nq\n"},
		{"generate", 1, "g 40 10 0.2 0.1 0.01 5\nq\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			err := s.Run(context.Background(), strings.NewReader(tt.script), &limitedWriter{n: tt.writes})
			assert.ErrorIs(t, err, errClosed)
		})
	}
}
