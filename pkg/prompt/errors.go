package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoDriver is returned when a session has no driver to prompt with.
	ErrNoDriver = errors.New("prompt: driver is nil")
	// ErrStillInvalid is returned when a required field stays invalid after
	// the configured number of attempts.
	ErrStillInvalid = errors.New("prompt: value still invalid")
)
