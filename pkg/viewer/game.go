package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

const (
	askTimeout = 500 * time.Millisecond
	statsEvery = 30 // frames between two statistics queries
	maxStep    = 100 * time.Millisecond
	panelWidth = 240
	// three vertices per boid, indices are uint16
	boidsPerBatch = math.MaxUint16 / 3
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	background = color.RGBA{R: 10, G: 10, B: 30, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	cfg        *simulation.Config
	logger     golog.Logger
	worldPID   *actor.PID
	snapshotCh chan *simulation.WorldSnapshot
	lastState  *simulation.WorldSnapshot
	stats      []simulation.FlockStatistics
	status     string
	frame      int
	clock      *simulation.StepClock

	// UI Controls
	panel               *ui.Panel
	widgetDistance      *ui.Slider
	widgetSepDistance   *ui.Slider
	widgetSeparation    *ui.Slider
	widgetAlignment     *ui.Slider
	widgetCohesion      *ui.Slider
	widgetFlock         *ui.Slider
	widgetAllFlocks     *ui.Checkbox
	widgetBoids         *ui.Slider
	widgetPaused        *ui.Checkbox
	regenerateRequested bool
	vertices            []ebiten.Vertex
	indices             []uint16

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

// NewGame spawns the world actor in system and builds the control panel.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem) (*Game, error) {
	snapshotCh := make(chan *simulation.WorldSnapshot, 10)
	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(snapshotCh, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		cfg:        cfg,
		logger:     system.Logger(),
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.WorldSnapshot{},
		clock:      simulation.NewStepClock(simulation.FallbackForTPS(ebiten.TPS()), maxStep),
	}

	diag := math.Hypot(cfg.WorldWidth, cfg.WorldHeight) / 2
	panel := ui.NewPanel("Flocking rules", 10, 10, panelWidth, cfg.WorldHeight-20)
	panel.AddSection("Target")
	g.widgetAllFlocks = panel.AddCheckbox("All flocks", true)
	g.widgetFlock = panel.AddSlider("flock", 0, float64(cfg.NumFlocks-1), 0)
	g.widgetFlock.Format = "%.0f"
	panel.AddSection("Neighbourhood")
	g.widgetDistance = panel.AddSlider("d", 0, diag, cfg.Rules.Distance)
	g.widgetSepDistance = panel.AddSlider("ds", 0, diag, cfg.Rules.SeparationDistance)
	panel.AddSection("Weights")
	g.widgetSeparation = panel.AddSlider("s", 0, 1, cfg.Rules.Separation)
	g.widgetAlignment = panel.AddSlider("a", 0, 1, cfg.Rules.Alignment)
	g.widgetCohesion = panel.AddSlider("c", 0, 1, cfg.Rules.Cohesion)
	g.widgetCohesion.Format = "%.4f"
	panel.AddSection("Population")
	g.widgetBoids = panel.AddSlider("boids per flock", 2, 2000, float64(cfg.NumBoids))
	g.widgetBoids.Format = "%.0f"
	panel.AddButton("Regenerate", func() { g.regenerateRequested = true })
	g.widgetPaused = panel.AddCheckbox("Pause", false)
	g.panel = panel

	return g, nil
}

func (g *Game) rules() flock.RuleParameters {
	return flock.RuleParameters{
		Distance:           g.widgetDistance.Value,
		SeparationDistance: g.widgetSepDistance.Value,
		Separation:         g.widgetSeparation.Value,
		Alignment:          g.widgetAlignment.Value,
		Cohesion:           g.widgetCohesion.Value,
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()

	// keep only the latest snapshot
	for drained := false; !drained; {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			drained = true
		}
	}

	if g.widgetFlock.Changed() {
		g.loadRules(g.target())
	}
	if g.rulesChanged() {
		target := g.target()
		if err := simulation.UpdateFlockRules(g.ctx, g.worldPID, target, g.rules(), askTimeout); err != nil {
			g.setStatus("rules rejected: %v", err)
		} else if target == simulation.AllFlocks {
			g.setStatus("rules of every flock updated")
		} else {
			g.setStatus("rules of flock %d updated", target)
		}
	}

	if g.regenerateRequested {
		g.regenerateRequested = false
		n := uint32(math.Round(g.widgetBoids.Value))
		if err := simulation.Regenerate(g.ctx, g.worldPID, n, askTimeout); err != nil {
			g.setStatus("regeneration failed: %v", err)
		} else {
			g.setStatus("regenerated %d boids per flock", n)
		}
	}

	// flocks advance by the measured frame time
	if g.widgetPaused.Value {
		g.clock.Reset()
	} else if err := simulation.Tick(g.ctx, g.worldPID, g.clock.Next(time.Now())); err != nil {
		return err
	}

	if g.frame%statsEvery == 0 {
		if stats, err := simulation.QueryStatistics(g.ctx, g.worldPID, askTimeout); err == nil {
			g.stats = stats
		} else {
			g.logger.Warnf("statistics query failed: %v", err)
		}
	}
	g.frame++
	return nil
}

// target is the flock the rule sliders edit, or simulation.AllFlocks.
func (g *Game) target() int {
	if g.widgetAllFlocks.Value {
		return simulation.AllFlocks
	}
	return int(math.Round(g.widgetFlock.Value))
}

// loadRules moves the rule sliders to the last known rules of flock i.
func (g *Game) loadRules(i int) {
	if i < 0 || i >= len(g.stats) {
		return
	}
	r := g.stats[i].Rules
	g.widgetDistance.Value = r.Distance
	g.widgetSepDistance.Value = r.SeparationDistance
	g.widgetSeparation.Value = r.Separation
	g.widgetAlignment.Value = r.Alignment
	g.widgetCohesion.Value = r.Cohesion
}

// rulesChanged polls every rule slider so each release is consumed.
func (g *Game) rulesChanged() bool {
	changed := false
	for _, s := range []*ui.Slider{g.widgetDistance, g.widgetSepDistance, g.widgetSeparation, g.widgetAlignment, g.widgetCohesion} {
		if s.Changed() {
			changed = true
		}
	}
	return changed
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.logger.Debug(g.status)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	for _, f := range g.lastState.Flocks {
		g.drawFlock(screen, f)
	}
	g.panel.Draw(screen)
	g.drawHUD(screen)
}

// drawFlock renders every boid as a triangle pointing along its velocity,
// batched in as few DrawTriangles calls as the index type allows.
func (g *Game) drawFlock(screen *ebiten.Image, f simulation.FlockSnapshot) {
	r, gr, b := float32(f.Color.R)/255, float32(f.Color.G)/255, float32(f.Color.B)/255
	for start := 0; start < len(f.Agents); start += boidsPerBatch {
		end := min(start+boidsPerBatch, len(f.Agents))
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
		for _, a := range f.Agents[start:end] {
			angle := a.Heading()
			base := uint16(len(g.vertices))
			for _, p := range [3][2]float64{{angle, 6}, {angle + 2.5, 5}, {angle - 2.5, 5}} {
				g.vertices = append(g.vertices, ebiten.Vertex{
					DstX:   float32(a.Position.X + math.Cos(p[0])*p[1]),
					DstY:   float32(a.Position.Y + math.Sin(p[0])*p[1]),
					SrcX:   1,
					SrcY:   1,
					ColorR: r, ColorG: gr, ColorB: b, ColorA: 1,
				})
			}
			g.indices = append(g.indices, base, base+1, base+2)
		}
		screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	x := int(g.cfg.WorldWidth) - 350
	perf := fmt.Sprintf("FPS: %.1f  TPS: %.1f  step %d\nUpdate: %.2fms  Draw: %.2fms\n",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.lastState.Step, g.updateAvg, g.drawAvg)
	ebitenutil.DebugPrintAt(screen, perf, x, 10)

	y := 50
	for _, st := range g.stats {
		if st.Flock < len(g.lastState.Flocks) {
			vector.FillRect(screen, float32(x), float32(y+4), 8, 8, g.lastState.Flocks[st.Flock].Color, true)
		}
		line := fmt.Sprintf("#%d %d boids  n/a", st.Flock, st.Size)
		if st.Valid {
			line = fmt.Sprintf("#%d %d boids  d %.0f+-%.0f  v %.1f+-%.1f",
				st.Flock, st.Size, st.Distance.Mean, st.Distance.Sigma, st.Speed.Mean, st.Speed.Sigma)
		}
		ebitenutil.DebugPrintAt(screen, line, x+14, y)
		y += 16
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, panelWidth+20, int(g.cfg.WorldHeight)-24)
	}
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
