package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and by the zero-length guards.
const (
	Epsilon = 1e-9
)

// Vector2D is a point or a displacement in the simulation plane.
// Positions and velocities of the agents are both stored as Vector2D values,
// so every method below returns a new value and never mutates the receiver.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// String implements fmt.Stringer, printing both coordinates with two decimals.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Neg returns the opposite vector.
func (v Vector2D) Neg() Vector2D {
	return Vector2D{-v.X, -v.Y}
}

// LenSqr is the squared magnitude, cheaper than Len for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the magnitude of the vector. For a velocity this is the speed.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// ClampLen rescales v to exactly maxLen when it is longer than maxLen.
// The direction is preserved and a zero vector is returned unchanged.
func (v Vector2D) ClampLen(maxLen float64) Vector2D {
	l := v.Len()
	if l <= maxLen || l == 0 {
		return v
	}
	return Vector2D{(v.X / l) * maxLen, (v.Y / l) * maxLen}
}

// DistanceTo is the plain Euclidean distance to another point.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// Angle returns the heading of the vector relative to the X-axis, in [-Pi, Pi].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// IsZero reports whether both coordinates are exactly zero.
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Eq checks if two vectors are equal within Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
