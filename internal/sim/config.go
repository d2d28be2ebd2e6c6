package sim

import (
	"errors"
	"fmt"
	"math"
)

// Validate checks every field and joins all problems into one error.
// Each problem is a *ConfigError, so errors.Is(err, ErrInvalidConfig) holds.
func (c Config) Validate() error {
	var errs []error
	bad := func(field string, value any, reason string) {
		errs = append(errs, &ConfigError{Field: field, Value: value, Reason: reason})
	}

	if c.Substeps < 1 {
		bad("substeps", c.Substeps, "must be at least 1")
	}
	if c.MinBalls < 0 {
		bad("min_balls", c.MinBalls, "must not be negative")
	}
	if c.MaxBalls < c.MinBalls {
		bad("max_balls", c.MaxBalls, fmt.Sprintf("must be at least min_balls (%d)", c.MinBalls))
	}
	if !(c.Radius.Min > 0) || !c.Radius.Valid() {
		bad("radius", c.Radius, "needs 0 < min <= max")
	}
	if len(c.Materials) == 0 && c.MaxBalls > 0 {
		bad("materials", len(c.Materials), "at least one ball material is required")
	}
	for _, m := range c.Materials {
		if err := m.Validate(); err != nil {
			bad("materials", m.Name, err.Error())
		}
	}
	if err := c.Wall.Validate(); err != nil {
		bad("wall", c.Wall.Name, err.Error())
	}
	if len(c.Layers) == 0 {
		bad("layers", 0, "at least one layer is required")
	}
	for i, l := range c.Layers {
		field := fmt.Sprintf("layers[%d]", i)
		if l.Sides < 3 {
			bad(field+".sides", l.Sides, "must be at least 3")
		}
		if !(l.Radius > 0) {
			bad(field+".radius", l.Radius, "must be positive")
		}
		if l.Gaps < 0 || (l.Sides >= 3 && l.Gaps >= l.Sides) {
			bad(field+".gaps", l.Gaps, "must be in [0, sides)")
		}
	}
	if !(c.AirDensity >= 0) || math.IsInf(c.AirDensity, 0) {
		bad("air_density", c.AirDensity, "must not be negative")
	}
	if math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) {
		bad("gravity", c.Gravity, "must be finite")
	}
	if !c.LaunchX.Valid() || !c.LaunchY.Valid() || !c.Spin.Valid() {
		bad("launch", fmt.Sprintf("%v %v %v", c.LaunchX, c.LaunchY, c.Spin), "ranges need min <= max")
	}
	if !(c.CoolingRate >= 0) || math.IsInf(c.CoolingRate, 0) {
		bad("cooling_rate", c.CoolingRate, "must be finite and not negative")
	}
	if !(c.HeatGain >= 0) || math.IsInf(c.HeatGain, 0) {
		bad("heat_gain", c.HeatGain, "must be finite and not negative")
	}
	if math.IsNaN(c.Ambient) || math.IsInf(c.Ambient, 0) {
		bad("ambient", c.Ambient, "must be finite")
	}
	if c.MaxTemperature != 0 && !(c.MaxTemperature >= c.Ambient) {
		bad("max_temperature", c.MaxTemperature, "must be zero or at least ambient")
	}
	if !(c.SpinDamping > 0 && c.SpinDamping <= 1) {
		bad("spin_damping", c.SpinDamping, "must be in (0,1]")
	}
	if !(c.SpinTransfer >= 0) || math.IsInf(c.SpinTransfer, 0) {
		bad("spin_transfer", c.SpinTransfer, "must be finite and not negative")
	}
	if !(c.MaxFrameTime >= 0) {
		bad("max_frame_time", c.MaxFrameTime, "must not be negative")
	}
	if c.PlacementAttempts < 1 {
		bad("placement_attempts", c.PlacementAttempts, "must be at least 1")
	}
	return errors.Join(errs...)
}

// SubstepMargin is maxSpeed*h/minRadius for frames of length dt. Values
// at or above one mean a ball of minimum radius can skip past a wall.
func (c Config) SubstepMargin(maxSpeed, dt float64) float64 {
	if c.Substeps < 1 || c.Radius.Min <= 0 {
		return math.Inf(1)
	}
	if c.MaxFrameTime > 0 && dt > c.MaxFrameTime {
		dt = c.MaxFrameTime
	}
	return maxSpeed * dt / float64(c.Substeps) / c.Radius.Min
}
