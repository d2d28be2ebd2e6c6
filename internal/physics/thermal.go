package physics

import "math"

// Thermal converts dissipated kinetic energy into temperature and relaxes
// temperature back toward Ambient.
type Thermal struct {
	Ambient     float64
	CoolingRate float64
	// HeatGain is temperature units per unit of absorbed energy.
	HeatGain float64
	// MaxTemperature caps heating; zero disables the cap.
	MaxTemperature float64
}

// Heat credits lost kinetic energy to b, scaled by the ball's thermal
// conductivity. lost below zero is ignored.
func (t Thermal) Heat(b *Ball, lost float64) {
	if lost <= 0 || t.HeatGain <= 0 {
		return
	}
	b.Temperature += b.Material.ThermalConductivity * lost * t.HeatGain
	if t.MaxTemperature > 0 && b.Temperature > t.MaxTemperature {
		b.Temperature = t.MaxTemperature
	}
}

// Cool moves b toward ambient by the fraction CoolingRate*h, capped at
// one so a large step lands on ambient instead of overshooting.
func (t Thermal) Cool(b *Ball, h float64) {
	k := math.Min(t.CoolingRate*h, 1)
	if k <= 0 {
		return
	}
	b.Temperature += (t.Ambient - b.Temperature) * k
	if b.Temperature < t.Ambient {
		b.Temperature = t.Ambient
	}
}

// Energy is the heat b holds above ambient, in energy units.
func (t Thermal) Energy(b *Ball) float64 {
	if t.HeatGain <= 0 {
		return 0
	}
	return (b.Temperature - t.Ambient) / t.HeatGain
}
