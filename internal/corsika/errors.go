package corsika

import "errors"

// Domain errors for card generation and binary invocation.
var (
	// ErrUnknownParticle indicates a primary particle name outside the map.
	ErrUnknownParticle = errors.New("corsika: unknown primary particle")

	// ErrNoExecutable indicates the configured CORSIKA binary was not found.
	ErrNoExecutable = errors.New("corsika: executable not found")

	// ErrRunFailed indicates the binary exited with a non-zero status.
	ErrRunFailed = errors.New("corsika: simulation run failed")
)

// RunError wraps a failed invocation with the path of the captured log.
type RunError struct {
	LogPath string
	Wrapped error
}

func (e *RunError) Error() string {
	return e.Wrapped.Error() + " (see " + e.LogPath + ")"
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
