package flock

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// DefaultMaxSpeed is the speed cap of an Agent built without WithMaxSpeed.
const DefaultMaxSpeed = 500.0

// Agent is a single boid: a point moving in an Area, steered by the three
// flocking rules of its RuleParameters.
//
// Boids is an artificial life program developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. https://en.wikipedia.org/wiki/Boids
//
// An Agent never keeps references to other agents. The rule methods receive a
// snapshot of the whole population, the agent itself included, and only read it.
type Agent struct {
	position geometry.Vector2D
	velocity geometry.Vector2D
	maxSpeed float64
	rules    RuleParameters
	area     Area
}

// AgentOption customizes an Agent built by NewAgent.
type AgentOption func(*Agent)

// WithPosition sets the initial position (default is the origin).
func WithPosition(p geometry.Vector2D) AgentOption {
	return func(a *Agent) { a.position = p }
}

// WithVelocity sets the initial velocity (default is zero).
func WithVelocity(v geometry.Vector2D) AgentOption {
	return func(a *Agent) { a.velocity = v }
}

// WithMaxSpeed sets the speed cap (default is DefaultMaxSpeed).
func WithMaxSpeed(speed float64) AgentOption {
	return func(a *Agent) { a.maxSpeed = speed }
}

// NewAgent creates an agent living in area and steered by rules.
func NewAgent(area Area, rules RuleParameters, opts ...AgentOption) (Agent, error) {
	if err := area.validate(); err != nil {
		return Agent{}, err
	}
	if err := rules.Validate(); err != nil {
		return Agent{}, err
	}
	a := Agent{
		maxSpeed: DefaultMaxSpeed,
		rules:    rules,
		area:     area,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if err := validateMaxSpeed(a.maxSpeed); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// ---------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------

// Position is the current location in the area.
func (a Agent) Position() geometry.Vector2D { return a.position }

// Velocity is the current velocity, in area units per time unit.
func (a Agent) Velocity() geometry.Vector2D { return a.velocity }

// MaxSpeed is the cap applied by UpdateVelocity.
func (a Agent) MaxSpeed() float64 { return a.maxSpeed }

// Rules returns a copy of the rule parameters.
func (a Agent) Rules() RuleParameters { return a.rules }

// Area is the plane the agent moves in.
func (a Agent) Area() Area { return a.area }

// Speed is the magnitude of the velocity.
func (a Agent) Speed() float64 { return a.velocity.Len() }

// Heading is the direction of motion in radians, atan2(vy, vx).
func (a Agent) Heading() float64 { return a.velocity.Angle() }

// SetPosition moves the agent without wrapping it into the area.
func (a *Agent) SetPosition(p geometry.Vector2D) { a.position = p }

// SetVelocity replaces the velocity. The speed cap applies on the next UpdateVelocity.
func (a *Agent) SetVelocity(v geometry.Vector2D) { a.velocity = v }

// SetMaxSpeed changes the speed cap. Negative values are rejected.
func (a *Agent) SetMaxSpeed(speed float64) error {
	if err := validateMaxSpeed(speed); err != nil {
		return err
	}
	a.maxSpeed = speed
	return nil
}

func validateMaxSpeed(speed float64) error {
	if math.IsNaN(speed) || speed < 0 {
		return fmt.Errorf("%w: max speed must be positive, got %g", ErrInvalidParameter, speed)
	}
	return nil
}

// SetRules replaces the whole parameter set. Nothing changes when it is invalid.
func (a *Agent) SetRules(rules RuleParameters) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	a.rules = rules
	return nil
}

// SetDistance changes d alone.
// Only d >= 0 is checked: a d that becomes smaller than the current ds is accepted.
func (a *Agent) SetDistance(d float64) error {
	if err := validateDistance(d); err != nil {
		return err
	}
	a.rules.Distance = d
	return nil
}

// SetSeparationDistance changes ds, checked against the current d.
func (a *Agent) SetSeparationDistance(ds float64) error {
	if err := validateSeparationDistance(ds, a.rules.Distance); err != nil {
		return err
	}
	a.rules.SeparationDistance = ds
	return nil
}

// SetSeparationWeight changes s, which must lie in [0,1].
func (a *Agent) SetSeparationWeight(s float64) error {
	if err := validateWeight("s", s); err != nil {
		return err
	}
	a.rules.Separation = s
	return nil
}

// SetAlignmentWeight changes a, which must lie in [0,1].
func (a *Agent) SetAlignmentWeight(w float64) error {
	if err := validateWeight("a", w); err != nil {
		return err
	}
	a.rules.Alignment = w
	return nil
}

// SetCohesionWeight changes c, which must lie in [0,1].
func (a *Agent) SetCohesionWeight(c float64) error {
	if err := validateWeight("c", c); err != nil {
		return err
	}
	a.rules.Cohesion = c
	return nil
}

// ---------------------------------------------------------------------
// Steering rules
// ---------------------------------------------------------------------

// Separation pushes the agent away from every neighbour closer than ds
// (toroidal distance): -s * sum(other - self).
func (a *Agent) Separation(snapshot []Agent) geometry.Vector2D {
	var displacements geometry.Vector2D
	for i := range snapshot {
		other := snapshot[i].position
		if a.area.Distance(a.position, other) < a.rules.SeparationDistance {
			displacements = displacements.Add(other.Sub(a.position))
		}
	}
	return displacements.Mul(-a.rules.Separation)
}

// Alignment steers towards the mean velocity of the neighbours closer than d
// (toroidal distance). The agent itself is counted in N, hence the N-1.
func (a *Agent) Alignment(snapshot []Agent) geometry.Vector2D {
	var velocities geometry.Vector2D
	n := 0
	for i := range snapshot {
		if a.area.Distance(a.position, snapshot[i].position) < a.rules.Distance {
			velocities = velocities.Add(snapshot[i].velocity.Sub(a.velocity))
			n++
		}
	}
	if n <= 1 {
		return geometry.Vector2D{}
	}
	return velocities.Mul(a.rules.Alignment / float64(n-1))
}

// Cohesion steers towards the centroid of the neighbours closer than d.
// The scan uses the plain Euclidean distance: neighbours across the seam of
// the area are not attracted.
func (a *Agent) Cohesion(snapshot []Agent) geometry.Vector2D {
	var positions geometry.Vector2D
	n := 0
	for i := range snapshot {
		if EuclideanDistance(a.position, snapshot[i].position) < a.rules.Distance {
			positions = positions.Add(snapshot[i].position)
			n++
		}
	}
	if n <= 1 {
		return geometry.Vector2D{}
	}
	// the agent matched itself; drop its own position from the sum
	centroid := positions.Sub(a.position).Mul(1 / float64(n-1))
	return centroid.Sub(a.position).Mul(a.rules.Cohesion)
}

// ---------------------------------------------------------------------
// Motion
// ---------------------------------------------------------------------

// UpdateVelocity adds the three rule contributions and caps the speed.
func (a *Agent) UpdateVelocity(snapshot []Agent) {
	v1 := a.Separation(snapshot)
	v2 := a.Alignment(snapshot)
	v3 := a.Cohesion(snapshot)
	a.velocity = a.velocity.Add(v1).Add(v2).Add(v3).ClampLen(a.maxSpeed)
}

// UpdatePosition moves the agent by velocity * dt.
func (a *Agent) UpdatePosition(dt float64) {
	a.position = a.position.Add(a.velocity.Mul(dt))
}

// ApplyBorders teleports the agent to the opposite edge when it left the area.
func (a *Agent) ApplyBorders() {
	a.position = a.area.Wrap(a.position)
}

// Tick is a full simulation step for one agent.
func (a *Agent) Tick(snapshot []Agent, dt float64) {
	a.UpdateVelocity(snapshot)
	a.UpdatePosition(dt)
	a.ApplyBorders()
}
