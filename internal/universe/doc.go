// Package universe is the simulation engine: a store of point-mass bodies
// addressed by stable keys, a gravitational integrator driven by wall-clock
// intervals, per-body trail recording and random scenario generation.
//
//   - [Universe.AddPlanet], [Universe.Remove], [Universe.DeleteAll] and
//     [Universe.SetPlanetVelocity] mutate the body store
//   - [Universe.NextKey] walks bodies in insertion order, [handles.None]
//     being the before-first and after-last sentinel
//   - [Universe.Advance] integrates in bounded substeps and samples trails
//   - [Universe.GenerateRandom] and [Universe.GenerateRandomOrbital] build
//     scenarios
//
// Operations on a stale key fail with [ErrNotFound] and leave the universe
// untouched.
//
// # Example
//
//	u := universe.New(1)
//	sun, _ := u.AddPlanet(mgl64.Vec3{}, mgl64.Vec3{}, 1e6)
//	u.GenerateRandomOrbital(10, sun)
//	for range frames {
//	    u.Advance(16_667)
//	}
//
// # Thread Safety
//
// A Universe has a single logical timeline and is NOT safe for concurrent
// use. One goroutine owns it; others talk to that goroutine.
package universe
