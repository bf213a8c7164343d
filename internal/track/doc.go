// Package track loads CORSIKA particle track files into memory.
//
// The particletracks option makes CORSIKA write one file per detector
// channel (electromagnetic, muon, hadron). Every Fortran record in
// those files holds one track segment of ten 32-bit floats: particle
// code, energy and the start and end points of the segment. Positions
// are centimetres, times nanoseconds, energies GeV.
//
// [Scan] locates the files a run produced, [Dataset.Tracks] reads
// them into a single slice tagged by channel.
package track
