// Package errs holds the error taxonomy shared by the scaffold, session, and
// builder layers. Each kind has a constructor and an IsXxx helper that unwraps.
package errs

import (
	"errors"
	"fmt"
)

// userInputError covers empty or duplicate plugin names and unknown templates.
type userInputError struct{ msg string }

func (e userInputError) Error() string { return e.msg }

// ErrUserInput constructs a user input error.
func ErrUserInput(format string, a ...any) error {
	return userInputError{msg: fmt.Sprintf(format, a...)}
}

// IsUserInput reports whether err is a user input error.
func IsUserInput(err error) bool {
	var e userInputError
	return errors.As(err, &e)
}

// alreadyExistsError is returned when a target directory is already present.
type alreadyExistsError struct{ path string }

func (e alreadyExistsError) Error() string {
	return "directory " + e.path + " already exists. Rename plugin, change working directory or delete existing directory"
}

// ErrAlreadyExists constructs an already-exists error for path.
func ErrAlreadyExists(path string) error { return alreadyExistsError{path: path} }

// IsAlreadyExists reports whether err indicates a pre-existing target directory.
func IsAlreadyExists(err error) bool {
	var e alreadyExistsError
	return errors.As(err, &e)
}

// missingDirectoryError signals an operation on a project that was never
// scaffolded or was deleted externally.
type missingDirectoryError struct{ path string }

func (e missingDirectoryError) Error() string { return "directory " + e.path + " does not exist" }

// ErrMissingDirectory constructs a missing-directory error for path.
func ErrMissingDirectory(path string) error { return missingDirectoryError{path: path} }

// IsMissingDirectory reports whether err indicates a missing directory.
func IsMissingDirectory(err error) bool {
	var e missingDirectoryError
	return errors.As(err, &e)
}

// ErrNotRunning is returned when a command is sent after the subprocess exited.
var ErrNotRunning = errors.New("subprocess is not running")

// IsNotRunning reports whether err indicates an exited or idle subprocess.
func IsNotRunning(err error) bool { return errors.Is(err, ErrNotRunning) }

// ErrArtifactMissing is returned by reload when no build artifact exists yet.
var ErrArtifactMissing = errors.New("build artifact does not exist")

// IsArtifactMissing reports whether err indicates a missing build artifact.
func IsArtifactMissing(err error) bool { return errors.Is(err, ErrArtifactMissing) }

// PartialFailure wraps an error raised after a scaffold was rolled back.
type PartialFailure struct {
	Path string
	Err  error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("scaffold %s rolled back: %v", e.Path, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// IsPartialFailure reports whether err came from a rolled back scaffold.
func IsPartialFailure(err error) bool {
	var e *PartialFailure
	return errors.As(err, &e)
}
