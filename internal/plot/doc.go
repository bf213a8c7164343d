// Package plot renders shower views from parsed CORSIKA data.
//
// Two fixed plot kinds mirror what the analysis needs, nothing more:
//
//   - [SideProfile]: particle track segments projected on the x-z
//     plane, clipped at the detected shower start altitude
//   - [GroundMap]: the two-dimensional Cherenkov photon density at
//     observation level
//
// Both render to a Braille [Canvas] for the terminal and to SVG for
// anything larger. [LongitudinalProfile] prepares the particle count
// per altitude bin for a plain line plot.
package plot
