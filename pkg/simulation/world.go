package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the flocks. It is the only place where they are mutated:
// ticks, rule changes and regenerations all arrive as messages.
//
//	*durationpb.Duration     advance every flock by the duration (seconds)
//	*emptypb.Empty           reply with the statistics of every flock
//	*structpb.Struct         replace the rule parameters of one flock, or of
//	                         every flock when the "flock" key is absent
//	*wrapperspb.UInt32Value  regenerate every flock with that many boids
type WorldActor struct {
	cfg    *Config
	rules  []flock.RuleParameters // one per flock
	flocks []*flock.Population
	rng    *rand.Rand
	// Communication with UI
	snapshotCh chan<- *WorldSnapshot
	step       uint64
	// --- Benchmark Stats ---
	ticksSinceLog int
	tickTime      time.Duration
	lastLogTime   time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. snapshotCh may be nil.
func NewWorldActor(snapshotCh chan<- *WorldSnapshot, cfg *Config) *WorldActor {
	return &WorldActor{
		cfg:        cfg,
		snapshotCh: snapshotCh,
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	if err := w.cfg.Validate(); err != nil {
		return err
	}
	area, err := w.cfg.Area()
	if err != nil {
		return err
	}
	w.rng = NewRand(w.cfg.Seed)
	w.flocks = make([]*flock.Population, w.cfg.NumFlocks)
	w.rules = make([]flock.RuleParameters, w.cfg.NumFlocks)
	for i := range w.flocks {
		if w.flocks[i], err = flock.NewPopulation(area); err != nil {
			return err
		}
		w.rules[i] = w.cfg.Rules
	}
	if err := w.regenerate(w.cfg.NumBoids); err != nil {
		return err
	}
	w.lastLogTime = time.Now()
	ctx.ActorSystem().Logger().Infof("World spawned %d flocks of %d boids", len(w.flocks), w.cfg.NumBoids)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World started")

	case *durationpb.Duration:
		w.tick(ctx, msg.AsDuration())
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	case *emptypb.Empty:
		ctx.Response(encodeStatistics(w.statistics()))

	case *structpb.Struct:
		var rules flock.RuleParameters
		target, err := decodeRuleTarget(msg)
		if err == nil {
			rules, err = decodeRules(msg)
		}
		if err == nil {
			err = w.setRules(target, rules)
		}
		if err != nil {
			ctx.Logger().Warnf("rejected rules update: %v", err)
			ctx.Response(wrapperspb.String(err.Error()))
			return
		}
		ctx.Logger().Debugf("rules of flock %d updated: %+v", target, rules)
		ctx.Response(&emptypb.Empty{})

	case *wrapperspb.UInt32Value:
		if err := w.regenerate(int(msg.GetValue())); err != nil {
			ctx.Logger().Warnf("rejected regeneration: %v", err)
			ctx.Response(wrapperspb.String(err.Error()))
			return
		}
		ctx.Logger().Infof("World regenerated %d flocks of %d boids", len(w.flocks), msg.GetValue())
		w.pushSnapshot()
		ctx.Response(&emptypb.Empty{})

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}

func (w *WorldActor) tick(ctx *actor.ReceiveContext, dt time.Duration) {
	start := time.Now()
	seconds := dt.Seconds()
	for i, f := range w.flocks {
		if w.cfg.Workers > 1 {
			if err := f.TickParallel(context.Background(), seconds, w.cfg.Workers); err != nil {
				ctx.Logger().Errorf("flock %d tick failed: %v", i, err)
			}
			continue
		}
		f.Tick(seconds)
	}
	w.step++
	w.ticksSinceLog++
	w.tickTime += time.Since(start)
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) < time.Second || w.ticksSinceLog == 0 {
		return
	}
	ctx.Logger().Debugf("TICK RATE: %d/sec, avg tick %s, step %d",
		w.ticksSinceLog, w.tickTime/time.Duration(w.ticksSinceLog), w.step)
	w.ticksSinceLog = 0
	w.tickTime = 0
	w.lastLogTime = time.Now()
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) buildSnapshot() *WorldSnapshot {
	snapshot := &WorldSnapshot{
		Step:   w.step,
		Flocks: make([]FlockSnapshot, len(w.flocks)),
	}
	for i, f := range w.flocks {
		snapshot.Flocks[i] = snapshotFlock(f)
	}
	return snapshot
}

func (w *WorldActor) statistics() []FlockStatistics {
	out := make([]FlockStatistics, len(w.flocks))
	for i, f := range w.flocks {
		out[i] = FlockStatistics{Flock: i, Size: f.Len(), Rules: w.rules[i]}
		dist, err := f.AverageDistance()
		if err != nil {
			continue
		}
		speed, err := f.AverageSpeed()
		if err != nil {
			continue
		}
		out[i].Valid = true
		out[i].Distance = dist
		out[i].Speed = speed
	}
	return out
}

// setRules gives rules to the flock at index target, or to every flock when
// target is AllFlocks.
func (w *WorldActor) setRules(target int, rules flock.RuleParameters) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	if target == AllFlocks {
		for i := range w.flocks {
			if err := w.applyRules(i, rules); err != nil {
				return err
			}
		}
		return nil
	}
	if target < 0 || target >= len(w.flocks) {
		return fmt.Errorf("%w: flock %d, the world has %d", ErrUnknownFlock, target, len(w.flocks))
	}
	return w.applyRules(target, rules)
}

func (w *WorldActor) applyRules(i int, rules flock.RuleParameters) error {
	if err := w.flocks[i].SetParameters(rules); err != nil {
		return fmt.Errorf("flock %d: %w", i, err)
	}
	w.rules[i] = rules
	return nil
}

func (w *WorldActor) regenerate(n int) error {
	for i, f := range w.flocks {
		if err := SpawnFlock(f, w.rng, w.cfg, w.rules[i], n); err != nil {
			return err
		}
	}
	w.step = 0
	return nil
}
