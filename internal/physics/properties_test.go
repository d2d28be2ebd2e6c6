package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
)

type vec = physics.Vec2

func randomMaterial(rng *rand.Rand) material.Material {
	return material.Material{
		Name:                "random",
		Density:             0.5 + 3*rng.Float64(),
		Restitution:         rng.Float64(),
		Friction:            rng.Float64(),
		DragCoefficient:     0.4,
		ThermalConductivity: rng.Float64(),
	}
}

// randomPair returns two overlapping balls approaching each other.
func randomPair(rng *rand.Rand) []physics.Ball {
	r1, r2 := 4+6*rng.Float64(), 4+6*rng.Float64()
	angle := rng.Float64() * 2 * math.Pi
	dir := vec{math.Cos(angle), math.Sin(angle)}
	dist := (r1 + r2) * (0.6 + 0.39*rng.Float64())
	a := physics.NewBall(vec{}, dir.Mul(100+400*rng.Float64()), 10*rng.Float64()-5, r1, randomMaterial(rng), 1)
	b := physics.NewBall(dir.Mul(dist), dir.Mul(-400*rng.Float64()), 10*rng.Float64()-5, r2, randomMaterial(rng), 1)
	a.Velocity = a.Velocity.Add(vec{rng.Float64()*200 - 100, rng.Float64()*200 - 100})
	return []physics.Ball{a, b}
}

var _ = Describe("Contact resolution", func() {
	var (
		rng      *rand.Rand
		resolver *physics.Resolver
		thermal  physics.Thermal
	)

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
		thermal = physics.Thermal{Ambient: 1, CoolingRate: 0.2, HeatGain: 1e-6}
		resolver = &physics.Resolver{Wall: material.Wall, SpinTransfer: 1, Thermal: thermal}
	})

	Context("between two balls", func() {
		It("conserves linear momentum", func() {
			for i := 0; i < 500; i++ {
				balls := randomPair(rng)
				c, ok := physics.DetectPair(balls, 0, 1)
				Expect(ok).To(BeTrue())

				before := balls[0].Momentum().Add(balls[1].Momentum())
				resolver.ResolvePair(balls, c)
				after := balls[0].Momentum().Add(balls[1].Momentum())

				Expect(after.Sub(before).Len()).To(BeNumerically("<=", 1e-9*(1+before.Len())))
			}
		})

		It("never increases total energy", func() {
			for i := 0; i < 500; i++ {
				balls := randomPair(rng)
				c, _ := physics.DetectPair(balls, 0, 1)

				before := physics.TotalEnergy(balls, thermal)
				out := resolver.ResolvePair(balls, c)
				after := physics.TotalEnergy(balls, thermal)

				Expect(after).To(BeNumerically("<=", before*(1+1e-12)))
				Expect(out.EnergyLost).To(BeNumerically(">=", 0))
			}
		})

		It("keeps the per-ball invariants", func() {
			for i := 0; i < 500; i++ {
				balls := randomPair(rng)
				c, _ := physics.DetectPair(balls, 0, 1)
				resolver.ResolvePair(balls, c)
				for _, b := range balls {
					Expect(b.Valid(thermal.Ambient)).To(BeTrue())
				}
				blend := material.Combine(balls[0].Material, balls[1].Material)
				Expect(blend.Restitution).To(BeNumerically(">=", 0))
				Expect(blend.Restitution).To(BeNumerically("<=", 1))
				Expect(blend.Friction).To(BeNumerically(">=", 0))
				Expect(blend.Friction).To(BeNumerically("<=", 1))
			}
		})
	})

	Context("against a wall", func() {
		It("never increases total energy", func() {
			for i := 0; i < 500; i++ {
				m := randomMaterial(rng)
				angle := rng.Float64() * 2 * math.Pi
				n := vec{math.Cos(angle), math.Sin(angle)}
				v := vec{rng.Float64()*800 - 400, rng.Float64()*800 - 400}
				if v.Dot(n) > 0 {
					v = v.Mul(-1)
				}
				b := physics.NewBall(vec{}, v, 20*rng.Float64()-10, 4+6*rng.Float64(), m, 1)
				balls := []physics.Ball{b}

				before := physics.TotalEnergy(balls, thermal)
				resolver.ResolveWall(&balls[0], physics.ContactEvent{Normal: n, Penetration: rng.Float64()})
				after := physics.TotalEnergy(balls, thermal)

				Expect(after).To(BeNumerically("<=", before*(1+1e-12)+1e-9))
				Expect(balls[0].Velocity.Dot(n)).To(BeNumerically(">=", -1e-9))
			}
		})
	})
})

var _ = Describe("World", func() {
	It("dissipates energy inside a closed container without gravity", func() {
		rng := rand.New(rand.NewSource(GinkgoRandomSeed()))
		th := physics.Thermal{Ambient: 1, HeatGain: 1e-6}
		layer := physics.NewPolygonLayer(vec{}, 150, 8, 0)

		var balls []physics.Ball
		for i := 0; i < 6; i++ {
			pos := vec{float64(i%3)*40 - 40, float64(i/3)*40 - 20}
			vel := vec{rng.Float64()*600 - 300, rng.Float64()*600 - 300}
			balls = append(balls, physics.NewBall(pos, vel, 0, 6, material.Catalog()[i%3], 1))
		}
		w := physics.NewWorld(balls, []physics.PolygonLayer{layer}, physics.Params{
			SpinDamping: 1,
			Resolver:    physics.Resolver{Wall: material.Wall, SpinTransfer: 1, Thermal: th},
		})

		prev := physics.TotalEnergy(w.Balls, th)
		for i := 0; i < 2000; i++ {
			w.Substep(1.0/480, nil)
			e := physics.TotalEnergy(w.Balls, th)
			Expect(e).To(BeNumerically("<=", prev*(1+1e-9)))
			prev = e
		}
	})
})
