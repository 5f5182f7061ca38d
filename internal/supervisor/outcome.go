package supervisor

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies how a bounded task ended.
type Kind int

const (
	// Success: the task exited with status 0.
	Success Kind = iota + 1

	// Failed: the task exited non-zero, was killed by a signal, could not
	// be waited on, or was abandoned because the caller's context ended.
	Failed

	// TimedOut: the timeout fired first and the task was killed.
	TimedOut

	// LaunchError: the task could not be started.
	LaunchError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	case LaunchError:
		return "launch_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrReapTimeout is the Outcome cause when a killed task was not reaped
// within the grace period.
var ErrReapTimeout = errors.New("task not reaped within grace period")

// Outcome is the classified result of RunBounded.
type Outcome struct {
	Kind Kind

	// ExitCode is the process exit status, or -1 when there is none
	// (killed by signal, never started, not reaped).
	ExitCode int

	// PID of the launched process; 0 for LaunchError.
	PID int

	Elapsed time.Duration

	// Cause carries the underlying error for Failed, TimedOut and
	// LaunchError outcomes. It is nil for Success.
	Cause error
}

// OK reports whether the task succeeded.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

// Err returns a diagnostic error for a non-successful outcome, nil otherwise.
func (o Outcome) Err() error {
	switch o.Kind {
	case Success:
		return nil
	case Failed:
		if o.Cause != nil {
			return fmt.Errorf("task failed (exit %d): %w", o.ExitCode, o.Cause)
		}
		return fmt.Errorf("task failed (exit %d)", o.ExitCode)
	case TimedOut:
		if o.Cause != nil {
			return fmt.Errorf("task timed out after %s: %w", o.Elapsed.Round(time.Millisecond), o.Cause)
		}
		return fmt.Errorf("task timed out after %s", o.Elapsed.Round(time.Millisecond))
	case LaunchError:
		return fmt.Errorf("task could not be launched: %w", o.Cause)
	default:
		return fmt.Errorf("unknown outcome %s", o.Kind)
	}
}

func (o Outcome) String() string {
	if err := o.Err(); err != nil {
		return fmt.Sprintf("%s: %v", o.Kind, err)
	}
	return o.Kind.String()
}
