package flock

import (
	"fmt"
	"math"
)

// RuleParameters holds the neighbourhood radii and the weights of the three
// steering rules. A value is only attached to an Agent once it validates.
type RuleParameters struct {
	Distance           float64 `json:"distance" toml:"distance"`                     // d: alignment and cohesion radius
	SeparationDistance float64 `json:"separationDistance" toml:"separationDistance"` // ds: separation radius, ds < d
	Separation         float64 `json:"separation" toml:"separation"`                 // s
	Alignment          float64 `json:"alignment" toml:"alignment"`                   // a
	Cohesion           float64 `json:"cohesion" toml:"cohesion"`                     // c
}

// NewRuleParameters builds and validates a parameter set.
func NewRuleParameters(d, ds, s, a, c float64) (RuleParameters, error) {
	p := RuleParameters{
		Distance:           d,
		SeparationDistance: ds,
		Separation:         s,
		Alignment:          a,
		Cohesion:           c,
	}
	if err := p.Validate(); err != nil {
		return RuleParameters{}, err
	}
	return p, nil
}

// Validate checks every field. The first violation found is returned.
func (p RuleParameters) Validate() error {
	if err := validateDistance(p.Distance); err != nil {
		return err
	}
	if err := validateSeparationDistance(p.SeparationDistance, p.Distance); err != nil {
		return err
	}
	if err := validateWeight("s", p.Separation); err != nil {
		return err
	}
	if err := validateWeight("a", p.Alignment); err != nil {
		return err
	}
	return validateWeight("c", p.Cohesion)
}

func validateDistance(d float64) error {
	if math.IsNaN(d) || d < 0 {
		return fmt.Errorf("%w: d must be positive, got %g", ErrInvalidParameter, d)
	}
	return nil
}

func validateSeparationDistance(ds, d float64) error {
	if math.IsNaN(ds) || ds < 0 || ds >= d {
		return fmt.Errorf("%w: ds must be positive and smaller than d (%g), got %g", ErrInvalidParameter, d, ds)
	}
	return nil
}

func validateWeight(name string, w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("%w: %s must be a number between 0 and 1, got %g", ErrInvalidParameter, name, w)
	}
	return nil
}
