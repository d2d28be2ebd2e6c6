package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/sim"
)

// Energy averages the total energy (kinetic, thermal and potential) over
// the observed frames.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *sim.Frame) {
	e.total += f.Energy.Total()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyGain is the largest relative rise of total energy above the first
// observed frame. Collisions only ever dissipate, so anything above zero
// comes from integration error.
type EnergyGain struct {
	name    string
	initial float64
	maxGain float64
	samples int
}

func NewEnergyGain() *EnergyGain {
	return &EnergyGain{name: "energy_gain"}
}

func (e *EnergyGain) Name() string { return e.name }

func (e *EnergyGain) Observe(f *sim.Frame) {
	energy := f.Energy.Total()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	if e.initial != 0 {
		e.maxGain = math.Max(e.maxGain, (energy-e.initial)/math.Abs(e.initial))
	}
}

func (e *EnergyGain) Value() float64 { return e.maxGain }

func (e *EnergyGain) Reset() {
	e.initial = 0
	e.maxGain = 0
	e.samples = 0
}

// Dissipation is the fraction of the first frame's mechanical energy that
// has been lost by the last observed frame.
type Dissipation struct {
	name    string
	initial float64
	last    float64
	samples int
}

func NewDissipation() *Dissipation {
	return &Dissipation{name: "dissipation"}
}

func (d *Dissipation) Name() string { return d.name }

func (d *Dissipation) Observe(f *sim.Frame) {
	e := f.Energy.Mechanical()
	if d.samples == 0 {
		d.initial = e
	}
	d.last = e
	d.samples++
}

func (d *Dissipation) Value() float64 {
	if d.samples == 0 || d.initial == 0 {
		return 0
	}
	return (d.initial - d.last) / math.Abs(d.initial)
}

func (d *Dissipation) Reset() {
	d.initial = 0
	d.last = 0
	d.samples = 0
}
