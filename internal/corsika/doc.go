// Package corsika drives the external CORSIKA air-shower binary.
//
// The package does no physics of its own. It fills the input card
// CORSIKA reads from stdin, starts the executable in its own
// directory, and collects the files it writes:
//
//   - [ParticleID]: primary particle name to CORSIKA ID mapping
//   - [GenerateCard]: input card generation from a run configuration
//   - [Runner]: synchronous invocation of the compiled binary
//
// CORSIKA truncates output paths beyond a fixed length, so the runner
// lets the binary write into a short-named scratch directory next to
// the executable and moves the products to the requested output
// directory after the process exits.
package corsika
