package simulation

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// AgentState is what the renderer needs to draw one boid.
type AgentState struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// Heading is the rotation of the boid, atan2(vy, vx).
func (s AgentState) Heading() float64 { return s.Velocity.Angle() }

type FlockSnapshot struct {
	Color  color.RGBA
	Agents []AgentState
}

// WorldSnapshot is pushed to the UI after every tick.
type WorldSnapshot struct {
	Step   uint64
	Flocks []FlockSnapshot
}

func snapshotFlock(p *flock.Population) FlockSnapshot {
	fs := FlockSnapshot{
		Color:  p.Color(),
		Agents: make([]AgentState, p.Len()),
	}
	for i := range fs.Agents {
		a := p.At(i)
		fs.Agents[i] = AgentState{Position: a.Position(), Velocity: a.Velocity()}
	}
	return fs
}

// FlockStatistics reports one flock and the rules it currently follows.
// Valid is false when the flock is too small for the statistics to exist.
type FlockStatistics struct {
	Flock    int
	Size     int
	Rules    flock.RuleParameters
	Valid    bool
	Distance flock.Statistics
	Speed    flock.Statistics
}
