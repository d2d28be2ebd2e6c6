package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// DivergenceResult is the separation between a reference simulation and
// a copy whose first ball was nudged at the start.
type DivergenceResult struct {
	Times      []float64
	Separation []float64
	// Rate is the mean log growth per second before saturation.
	Rate float64
}

// saturation is the mean separation, in pixels, past which the two runs
// are treated as unrelated.
const saturation = 50.0

// Divergence runs two simulations built from cfg, shifts ball 0 of the
// second by perturbation along x, and tracks the mean ball separation.
func Divergence(cfg sim.Config, dt, duration, perturbation float64) (*DivergenceResult, error) {
	if !(perturbation > 0) {
		return nil, fmt.Errorf("perturbation must be positive, got %f", perturbation)
	}
	ref, err := sim.New(cfg)
	if err != nil {
		return nil, err
	}
	pert, err := sim.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := pert.PerturbBall(0, physics.Vec2{perturbation, 0}); err != nil {
		return nil, err
	}

	d0 := perturbation / float64(len(ref.Balls()))
	res := &DivergenceResult{}
	sumLog, count := 0.0, 0
	saturated := false

	for t := 0.0; t < duration; t += dt {
		ref.Advance(dt)
		pert.Advance(dt)

		sep := meanSeparation(ref.Balls(), pert.Balls())
		res.Times = append(res.Times, t+dt)
		res.Separation = append(res.Separation, sep)

		if saturated || sep <= 0 {
			continue
		}
		if sep > saturation {
			saturated = true
			continue
		}
		sumLog += math.Log(sep / d0)
		count++
	}

	if count > 0 {
		// mean of ln(sep/d0) over frames, divided by the mean elapsed time
		meanT := dt * float64(count+1) / 2
		res.Rate = sumLog / float64(count) / meanT
	}
	return res, nil
}

func meanSeparation(a, b []physics.Ball) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i].Position.Sub(b[i].Position).Len()
	}
	return sum / float64(n)
}
