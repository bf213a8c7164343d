// Package cherenkov extracts photon bunches from CORSIKA IACT output.
//
// The IACT extension writes an eventio-framed file next to the track
// files. This package is not a general eventio parser; it walks the
// object stream just far enough to pull out the telescope positions
// and the photon bunches of the first event, which is all the
// particletracks card produces (one shower, one telescope). Anything
// deeper belongs to the dedicated eventio tooling.
package cherenkov
