package cli

import "fmt"

// CommandError signals a command failure with a specific exit code.
// Commands return this after printing their own error output, so main can
// centralize exit handling instead of commands calling os.Exit directly.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// DurabilityError reports that a mutation succeeded in memory but could not
// be written out. The in-memory tables remain the source of truth; the
// change is simply at risk until the next successful save.
type DurabilityError struct {
	Err error
}

func (e *DurabilityError) Error() string {
	return fmt.Sprintf("changes are in memory but could not be saved: %v", e.Err)
}

func (e *DurabilityError) Unwrap() error {
	return e.Err
}
