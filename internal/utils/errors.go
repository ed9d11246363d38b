package utils

import (
	"errors"
	"fmt"
)

// InputError is a user input problem. It is raised before any process runs
// and aborts the whole batch.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NoTargetsError is returned when a target list holds no usable entry.
type NoTargetsError struct {
	Raw string
}

func (e *NoTargetsError) Error() string {
	return "no targets found in " + quote(e.Raw)
}

// Unwrap lets errors.As(err, **InputError) match a NoTargetsError.
func (e *NoTargetsError) Unwrap() error {
	return &InputError{Field: "targets", Reason: "empty target list"}
}

// SpawnError means the external executable could not be started.
type SpawnError struct {
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not start %s: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExternalFailure means the external tool ran and exited non-zero.
type ExternalFailure struct {
	ExitCode int
	Err      error
}

func (e *ExternalFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("yt-dlp exited with status %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("yt-dlp exited with status %d", e.ExitCode)
}

func (e *ExternalFailure) Unwrap() error { return e.Err }

// MalformedOutputError is returned by the probe parser when the tool exits
// cleanly but prints fewer fields than requested.
type MalformedOutputError struct {
	Expected int
	Got      int
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed probe output: expected %d fields, got %d", e.Expected, e.Got)
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
