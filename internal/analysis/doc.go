// Package analysis extracts orbital characteristics from recorded runs.
//
//   - [OrbitalPeriod]: dominant period of a distance series from its power
//     spectrum
//   - [Apsides]: times of closest and farthest approach
//   - [Eccentricity]: shape of a bound orbit from its distance extremes
//   - [PlotXY]: ASCII rendering of a path projected onto the XY plane
//
// # Example
//
//	d := analysis.Distances(planet, sun)
//	period, err := analysis.OrbitalPeriod(d, dt)
package analysis
