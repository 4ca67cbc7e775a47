// Package physics provides the gravitational model driven by the engine.
//
// [Gravity] implements [dynamo.System] and [dynamo.Hamiltonian] for point
// masses in three dimensions. Accelerations come from either the direct
// pairwise sum or, for large body counts, a Barnes-Hut octree
// ([SolverBarnesHut]). Both solvers add the squared softening length to
// every squared separation, so coincident bodies never produce infinities.
//
// # Energy Conservation
//
// Use [Gravity.Energy] to monitor drift:
//
//	g := physics.NewGravity(masses)
//	e0 := g.Energy(x)
//	x = integ.Step(g, x, dt)
//	drift := math.Abs(g.Energy(x)-e0) / math.Abs(e0)
package physics
