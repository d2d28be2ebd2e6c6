// Package material defines the closed catalog of ball and boundary
// materials and the symmetric rule used to blend two of them at a contact.
package material

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Color is a linear RGB triple with channels in [0,1].
type Color struct {
	R, G, B float64
}

func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
	}
}

// Hot is the tint of a ball at the temperature cap.
var Hot = Color{1, 0.45, 0.1}

// Heated blends c toward Hot by frac, clamped to [0,1].
func (c Color) Heated(frac float64) Color {
	switch {
	case !(frac > 0):
		return c
	case frac >= 1:
		return Hot
	}
	return c.Lerp(Hot, frac)
}

// RGBA8 converts to 8-bit channels, clamping out-of-range values.
func (c Color) RGBA8() (r, g, b uint8) {
	return channel8(c.R), channel8(c.G), channel8(c.B)
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	r, g, b := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func channel8(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

// Material is an immutable record of physical coefficients.
type Material struct {
	Name                string  `yaml:"name" json:"name"`
	Density             float64 `yaml:"density" json:"density"`
	Restitution         float64 `yaml:"restitution" json:"restitution"`
	Friction            float64 `yaml:"friction" json:"friction"`
	DragCoefficient     float64 `yaml:"drag_coefficient" json:"drag_coefficient"`
	ThermalConductivity float64 `yaml:"thermal_conductivity" json:"thermal_conductivity"`
	BaseColor           Color   `yaml:"color" json:"color"`
}

var (
	Rubber = Material{
		Name: "rubber", Density: 1.0, Restitution: 0.85, Friction: 0.8,
		DragCoefficient: 0.47, ThermalConductivity: 0.6,
		BaseColor: Color{0.8, 0.3, 0.3},
	}
	Steel = Material{
		Name: "steel", Density: 3.0, Restitution: 0.6, Friction: 0.4,
		DragCoefficient: 0.4, ThermalConductivity: 0.9,
		BaseColor: Color{0.7, 0.7, 0.8},
	}
	Glass = Material{
		Name: "glass", Density: 2.0, Restitution: 0.95, Friction: 0.2,
		DragCoefficient: 0.45, ThermalConductivity: 0.3,
		BaseColor: Color{0.6, 0.8, 0.9},
	}
	// Wall is the boundary material of every polygon layer.
	Wall = Material{
		Name: "wall", Density: 10.0, Restitution: 0.8, Friction: 0.5,
		DragCoefficient: 0, ThermalConductivity: 0,
		BaseColor: Color{0.8, 0.8, 0.8},
	}
)

var catalog = map[string]Material{
	Rubber.Name: Rubber,
	Steel.Name:  Steel,
	Glass.Name:  Glass,
	Wall.Name:   Wall,
}

// Catalog returns the ball materials in a stable order.
func Catalog() []Material {
	return []Material{Rubber, Steel, Glass}
}

// ByName looks a material up case-insensitively.
func ByName(name string) (Material, bool) {
	m, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate reports the first coefficient outside its allowed range.
func (m Material) Validate() error {
	switch {
	case !(m.Density > 0) || math.IsInf(m.Density, 0):
		return fmt.Errorf("material %q: density must be positive, got %g", m.Name, m.Density)
	case !(m.Restitution >= 0 && m.Restitution <= 1):
		return fmt.Errorf("material %q: restitution must be in [0,1], got %g", m.Name, m.Restitution)
	case !(m.Friction >= 0 && m.Friction <= 1):
		return fmt.Errorf("material %q: friction must be in [0,1], got %g", m.Name, m.Friction)
	case !(m.DragCoefficient >= 0) || math.IsInf(m.DragCoefficient, 0):
		return fmt.Errorf("material %q: drag coefficient must be non-negative, got %g", m.Name, m.DragCoefficient)
	case !(m.ThermalConductivity >= 0 && m.ThermalConductivity <= 1):
		return fmt.Errorf("material %q: thermal conductivity must be in [0,1], got %g", m.Name, m.ThermalConductivity)
	}
	return nil
}

// Blend holds the coefficients that apply at a contact between two materials.
type Blend struct {
	Restitution float64
	Friction    float64
	Color       Color
}

// Combine averages the two materials. The result does not depend on
// argument order.
func Combine(a, b Material) Blend {
	return Blend{
		Restitution: (a.Restitution + b.Restitution) / 2,
		Friction:    (a.Friction + b.Friction) / 2,
		Color:       a.BaseColor.Lerp(b.BaseColor, 0.5),
	}
}
