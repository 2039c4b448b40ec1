package flock

import "errors"

var (
	// ErrInvalidParameter is returned when a rule parameter, a speed cap or an
	// area dimension falls outside its domain. Values are never clamped.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData is returned when there are not enough members, pairs
	// or histogram entries to compute a statistic.
	ErrInsufficientData = errors.New("not enough entries to run a statistics")

	// ErrMismatchedSeries is returned when the histogram entries and their
	// errors do not have the same length.
	ErrMismatchedSeries = errors.New("entries and errors must have the same length")
)
