package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

var (
	// ErrNoRun is returned when statistics are requested before any flock was generated.
	ErrNoRun = errors.New("no data yet, generate a flock with [g]")
	// ErrInvalidNorm is returned when a histogram norm is not strictly positive.
	ErrInvalidNorm = errors.New("norms need to be positive non-null numbers to visualize the histogram")
)

// Run holds the statistics recorded before every step of one generated flock.
type Run struct {
	ID        uuid.UUID
	Rules     flock.RuleParameters
	Size      int
	Started   time.Time
	Distances []flock.Statistics
	Speeds    []flock.Statistics
}

// Steps is the number of recorded samples.
func (r *Run) Steps() int { return len(r.Distances) }

func means(stats []flock.Statistics) (mean, sigma []float64) {
	mean = make([]float64, len(stats))
	sigma = make([]float64, len(stats))
	for i, s := range stats {
		mean[i], sigma[i] = s.Mean, s.Sigma
	}
	return mean, sigma
}

// Session drives one population through fixed-duration statistics runs.
type Session struct {
	cfg    *simulation.Config
	logger golog.Logger
	rng    *rand.Rand
	pop    *flock.Population
	run    *Run
}

// New prepares a session on the area described by cfg. A zero seed picks a random one.
func New(cfg *simulation.Config, logger golog.Logger, seed uint64) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	area, err := cfg.Area()
	if err != nil {
		return nil, err
	}
	pop, err := flock.NewPopulation(area)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = golog.DiscardLogger
	}
	return &Session{
		cfg:    cfg,
		logger: logger,
		rng:    simulation.NewRand(seed),
		pop:    pop,
	}, nil
}

// Last returns the latest successful run, or nil.
func (s *Session) Last() *Run { return s.run }

// Generate spawns a fresh flock of n boids and runs it for the configured
// duration, recording the distance and speed statistics before every tick.
// A failed generation discards the previous run.
func (s *Session) Generate(ctx context.Context, rules flock.RuleParameters, n int) (*Run, error) {
	s.run = nil
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := simulation.SpawnFlock(s.pop, s.rng, s.cfg, rules, n); err != nil {
		return nil, err
	}

	run := &Run{ID: uuid.New(), Rules: rules, Size: n, Started: time.Now()}
	s.logger.Debugf("run %s: %d boids, rules %+v", run.ID, n, rules)
	for t := 0.0; t < s.cfg.Duration; t += s.cfg.DeltaT {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dist, err := s.pop.AverageDistance()
		if err != nil {
			return nil, err
		}
		speed, err := s.pop.AverageSpeed()
		if err != nil {
			return nil, err
		}
		run.Distances = append(run.Distances, dist)
		run.Speeds = append(run.Speeds, speed)

		if s.cfg.Workers > 1 {
			if err := s.pop.TickParallel(ctx, s.cfg.DeltaT, s.cfg.Workers); err != nil {
				return nil, err
			}
			continue
		}
		s.pop.Tick(s.cfg.DeltaT)
	}
	s.logger.Infof("run %s: recorded %d steps in %s", run.ID, run.Steps(), time.Since(run.Started))
	s.run = run
	return run, nil
}

// Report prints the recorded statistics of the last run, step by step.
func (s *Session) Report(w io.Writer) error {
	if s.run == nil {
		return ErrNoRun
	}
	for i := range s.run.Distances {
		if _, err := fmt.Fprintf(w, "Average distance = %s\nAverage speed = %s\n\n",
			s.run.Distances[i], s.run.Speeds[i]); err != nil {
			return err
		}
	}
	return nil
}

// Histograms prints the histogram of the mean distances, then the one of
// the mean speeds, each bar character standing for its norm.
func (s *Session) Histograms(w io.Writer, normDistance, normSpeed float64) error {
	if !(normDistance > 0) || !(normSpeed > 0) {
		return fmt.Errorf("%w: got %g and %g", ErrInvalidNorm, normDistance, normSpeed)
	}
	if s.run == nil {
		return ErrNoRun
	}

	d, dErr := means(s.run.Distances)
	distances, err := flock.Histogram(d, dErr, normDistance)
	if err != nil {
		return fmt.Errorf("distances: %w", err)
	}
	v, vErr := means(s.run.Speeds)
	speeds, err := flock.Histogram(v, vErr, normSpeed)
	if err != nil {
		return fmt.Errorf("speeds: %w", err)
	}

	if _, err := fmt.Fprint(w, "Histogram of mean distances:\n\n"); err != nil {
		return err
	}
	if err := writeRows(w, distances); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\nHistogram of mean speeds:\n\n"); err != nil {
		return err
	}
	return writeRows(w, speeds)
}

func writeRows(w io.Writer, rows []string) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}
