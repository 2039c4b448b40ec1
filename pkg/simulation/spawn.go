package simulation

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// NewRand returns the generator used to seed flocks. A zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SpawnFlock empties p and fills it with n agents placed uniformly in the
// area, with velocity components drawn in [-InitialSpeed, InitialSpeed], then
// paints the flock with a random colour.
func SpawnFlock(p *flock.Population, rng *rand.Rand, cfg *Config, rules flock.RuleParameters, n int) error {
	if n < 2 {
		return fmt.Errorf("%w: try generating a bigger flock, got %d boids", flock.ErrInsufficientData, n)
	}
	p.Reset()
	area := p.Area()
	for i := 0; i < n; i++ {
		pos := geometry.NewVector(rng.Float64()*area.Width, rng.Float64()*area.Height)
		vel := geometry.NewVector(
			(rng.Float64()*2-1)*cfg.InitialSpeed,
			(rng.Float64()*2-1)*cfg.InitialSpeed,
		)
		a, err := flock.NewAgent(area, rules,
			flock.WithPosition(pos),
			flock.WithVelocity(vel),
			flock.WithMaxSpeed(cfg.MaxSpeed))
		if err != nil {
			return fmt.Errorf("boid %d: %w", i, err)
		}
		p.Append(a)
	}
	p.SetColor(color.RGBA{
		R: uint8(rng.IntN(256)),
		G: uint8(rng.IntN(256)),
		B: uint8(rng.IntN(256)),
		A: 255,
	})
	return nil
}
