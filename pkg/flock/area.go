package flock

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// Area is the rectangular simulation plane. Its edges wrap around.
type Area struct {
	Width  float64
	Height float64
}

// NewArea returns an Area after checking both dimensions are strictly positive.
func NewArea(width, height float64) (Area, error) {
	a := Area{Width: width, Height: height}
	if err := a.validate(); err != nil {
		return Area{}, err
	}
	return a, nil
}

func (a Area) validate() error {
	if !(a.Width > 0) || !(a.Height > 0) || math.IsInf(a.Width, 0) || math.IsInf(a.Height, 0) {
		return fmt.Errorf("%w: area must have a positive finite size, got %gx%g", ErrInvalidParameter, a.Width, a.Height)
	}
	return nil
}

// Distance approximates the shortest distance from p1 to p2 on the torus.
// A coordinate difference (p2 - p1) is folded only when it is larger than half
// the area; large negative differences are left as they are, so the function is
// not symmetric in its arguments.
func (a Area) Distance(p1, p2 geometry.Vector2D) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	if dx > a.Width/2 {
		dx = a.Width - dx
	}
	if dy > a.Height/2 {
		dy = a.Height - dy
	}
	return math.Sqrt(dx*dx + dy*dy)
}

// EuclideanDistance is the distance between two points ignoring the wraparound.
func EuclideanDistance(p1, p2 geometry.Vector2D) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Wrap moves a point that left the area to the opposite edge.
// It snaps to the edge instead of carrying the overshoot.
func (a Area) Wrap(p geometry.Vector2D) geometry.Vector2D {
	if p.X < 0 {
		p.X = a.Width
	} else if p.X > a.Width {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = a.Height
	} else if p.Y > a.Height {
		p.Y = 0
	}
	return p
}
