package pipeline

import (
	"errors"
	"fmt"
	"os/exec"
)

// StageError reports that a stage could not be started or exited unsuccessfully.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ExitCode is the process exit code the failure maps to.
func (e *StageError) ExitCode() int { return ExitCode(e.Err) }

// ExitCode derives a process exit code from a run error. A nil error is 0, a
// child that exited with status n is n, and anything else (spawn failures,
// children killed by a signal, cancellation) is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
