package sim

import (
	"context"
	"fmt"
	"math"
)

// RunConfig controls a headless run.
type RunConfig struct {
	Dt       float64
	Duration float64
	// Every records one sample per Every frames; zero means every frame.
	// A sample's Collisions covers all frames since the previous sample.
	Every int
}

func (rc RunConfig) validate() error {
	if !(rc.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", rc.Dt)
	}
	if !(rc.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", rc.Duration)
	}
	if rc.Every < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", rc.Every)
	}
	return nil
}

// Run advances the simulation for rc.Duration at a fixed frame time,
// recording samples and collecting metric values.
func (s *Simulation) Run(ctx context.Context, rc RunConfig) (*Result, error) {
	if err := rc.validate(); err != nil {
		return nil, err
	}
	frames := int(math.Round(rc.Duration / rc.Dt))
	every := rc.Every
	if every == 0 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, frames/every+1),
		Metrics: make(map[string]float64),
		Seed:    s.cfg.Seed,
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, s.sample(0))
	collisions := 0
	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		collisions += len(s.Advance(rc.Dt))
		if i%every == 0 {
			result.Samples = append(result.Samples, s.sample(collisions))
			collisions = 0
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Stats = s.stats
	final := s.Snapshot()
	result.Final = &final
	return result, nil
}

// RunWithCallback advances until the callback returns false or ctx ends.
func (s *Simulation) RunWithCallback(ctx context.Context, dt float64, callback func(*Simulation) bool) error {
	if !(dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Advance(dt)
		if !callback(s) {
			return nil
		}
	}
}

func (s *Simulation) sample(collisions int) Sample {
	e := s.world.Energy()
	smp := Sample{
		Time:       s.stats.Elapsed,
		Balls:      len(s.world.Balls),
		Linear:     e.Linear,
		Rotational: e.Rotational,
		Thermal:    e.Thermal,
		Potential:  e.Potential,
		Total:      e.Total(),
		Collisions: collisions,
	}
	if len(s.world.Balls) == 0 {
		return smp
	}
	var temp, spin float64
	for i := range s.world.Balls {
		b := &s.world.Balls[i]
		smp.MaxSpeed = math.Max(smp.MaxSpeed, b.Speed())
		temp += b.Temperature
		spin += math.Abs(b.Spin)
	}
	n := float64(len(s.world.Balls))
	smp.MeanTemp = temp / n
	smp.MeanSpinAbs = spin / n
	return smp
}

// SampleFields names the Sample columns in storage order.
var SampleFields = []string{
	"time", "balls", "linear", "rotational", "thermal", "potential",
	"total", "collisions", "max_speed", "mean_temp", "mean_spin",
}

// Values returns the sample in SampleFields order.
func (s Sample) Values() []float64 {
	return []float64{
		s.Time, float64(s.Balls), s.Linear, s.Rotational, s.Thermal, s.Potential,
		s.Total, float64(s.Collisions), s.MaxSpeed, s.MeanTemp, s.MeanSpinAbs,
	}
}

// SampleFromValues is the inverse of Values. Missing trailing columns stay zero.
func SampleFromValues(v []float64) Sample {
	get := func(i int) float64 {
		if i < len(v) {
			return v[i]
		}
		return 0
	}
	return Sample{
		Time: get(0), Balls: int(get(1)), Linear: get(2), Rotational: get(3),
		Thermal: get(4), Potential: get(5), Total: get(6), Collisions: int(get(7)),
		MaxSpeed: get(8), MeanTemp: get(9), MeanSpinAbs: get(10),
	}
}
