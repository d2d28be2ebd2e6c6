package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrPlacementFailed means regeneration could not place every ball
	// within the attempt budget. The previous state is kept.
	ErrPlacementFailed = errors.New("sim: ball placement failed")

	// ErrUnknownParam is returned by SetParam for names it does not know.
	ErrUnknownParam = errors.New("sim: unknown parameter")
)

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sim: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// PlacementError reports which ball could not be placed.
type PlacementError struct {
	Ball     int
	Count    int
	Attempts int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("sim: ball %d of %d not placed after %d attempts", e.Ball+1, e.Count, e.Attempts)
}

func (e *PlacementError) Unwrap() error { return ErrPlacementFailed }
