// Package physics is the rigid-body core: circular [Ball] bodies moving
// under gravity and drag inside rotating [PolygonLayer] boundaries.
//
// One call to [World.Substep] advances the world by a fixed step h:
//
//   - rotate every layer
//   - apply gravity and drag, integrate with semi-implicit Euler
//   - detect and resolve wall contacts, then ball-ball contacts
//   - cool every ball toward ambient
//
// Detection ([DetectWalls], [DetectPairs]) is pure and returns
// [ContactEvent] values that refer to balls by index. The [Resolver]
// mutates balls through those indices, so two balls are never aliased
// while a pair is resolved.
//
// # Energy
//
// Every contact is dissipative or neutral. Friction converts relative
// tangential slip into spin through an impulse bounded by the slip
// itself, and the kinetic energy a contact removes is credited to the
// balls' temperature scaled by their thermal conductivity:
//
//	before := physics.TotalEnergy(balls, thermal)
//	w.Substep(h)
//	after := physics.TotalEnergy(balls, thermal) // <= before, gravity aside
//
// The package performs no I/O and never fails once a world is built.
package physics
