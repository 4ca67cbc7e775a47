// Package dynamo provides the primitives shared by the physics models and
// the numerical integrators:
//
//   - [State]: flat phase-space vector, positions first then velocities
//   - [System]: autonomous ODE dX/dt = f(X)
//   - [Accelerator]: second-order systems that expose accelerations alone
//   - [Integrator]: fixed-step numerical scheme
//   - [Hamiltonian]: systems that can report their total energy
//
// # Example
//
//	g := physics.NewGravity(masses)
//	integ := integrators.NewLeapfrog()
//	x = integ.Step(g, x, dt)
//
// # Thread Safety
//
// Integrators keep scratch buffers between calls and are NOT safe for
// concurrent use. Give each goroutine its own instance.
package dynamo
