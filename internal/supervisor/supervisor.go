package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

const (
	// DefaultTimeout bounds one inquiry.
	DefaultTimeout = 5 * time.Minute

	// DefaultGrace bounds the wait for a killed task to be reaped.
	DefaultGrace = 5 * time.Second

	// DefaultStopGrace is how long a task has to exit after SIGTERM before
	// it is killed.
	DefaultStopGrace = 2 * time.Second
)

// Task describes a process to run.
type Task struct {
	Path string
	Args []string

	// Env is the full environment; nil inherits the supervisor's.
	Env []string
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// SelfTask returns a task that re-executes the running binary with args,
// wired to the supervisor's standard streams.
func SelfTask(args ...string) (Task, error) {
	exe, err := os.Executable()
	if err != nil {
		return Task{}, fmt.Errorf("locate executable: %w", err)
	}
	return Task{
		Path:   exe,
		Args:   args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// WithEnv returns a copy of t whose environment is t.Env, or the current
// process environment when t.Env is nil, plus extra KEY=VALUE pairs.
func (t Task) WithEnv(extra ...string) Task {
	base := t.Env
	if base == nil {
		base = os.Environ()
	}
	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)
	t.Env = append(env, extra...)
	return t
}

// Supervisor runs tasks under a timeout.
// Safe for sequential use; RunBounded calls do not share state.
type Supervisor struct {
	timeout      time.Duration
	grace        time.Duration
	stopGrace    time.Duration
	processGroup bool
	logger       *slog.Logger
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithTimeout sets the hard wall-clock limit per task.
func WithTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		s.timeout = d
	}
}

// WithGrace sets how long to wait for a killed task to be reaped.
func WithGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		s.grace = d
	}
}

// WithStopGrace sets how long a task may take to exit after it is asked to
// stop. A terminal UI uses this time to restore the terminal it shares with
// the supervisor.
func WithStopGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		s.stopGrace = d
	}
}

// WithProcessGroup runs the task in its own process group so a kill also
// reaches anything it spawned. Leave it off when the task reads from the
// controlling terminal: a background process group is stopped by SIGTTIN.
// Only effective on Unix.
func WithProcessGroup(enabled bool) Option {
	return func(s *Supervisor) {
		s.processGroup = enabled
	}
}

// WithLogger sets the logger used for kill diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) {
		s.logger = l
	}
}

// New creates a Supervisor with DefaultTimeout and DefaultGrace.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		timeout:   DefaultTimeout,
		grace:     DefaultGrace,
		stopGrace: DefaultStopGrace,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.grace <= 0 {
		s.grace = DefaultGrace
	}
	if s.stopGrace < 0 {
		s.stopGrace = DefaultStopGrace
	}
	return s
}

// Timeout returns the configured per-task limit.
func (s *Supervisor) Timeout() time.Duration {
	return s.timeout
}

// RunBounded launches task and waits for it, at most Timeout plus the stop
// grace plus Grace. It never panics on task failure and never returns an
// error: every ending is an Outcome.
//
// A task past its timeout gets SIGTERM first and SIGKILL only if it is still
// running after the stop grace. If ctx ends first the task is stopped the
// same way and reported as Failed with the context error as Cause.
func (s *Supervisor) RunBounded(ctx context.Context, task Task) Outcome {
	start := time.Now()

	cmd := exec.Command(task.Path, task.Args...)
	cmd.Env = task.Env
	cmd.Dir = task.Dir
	cmd.Stdin = task.Stdin
	cmd.Stdout = task.Stdout
	cmd.Stderr = task.Stderr
	if s.processGroup {
		setupProcessGroup(cmd)
	}

	if err := cmd.Start(); err != nil {
		return Outcome{Kind: LaunchError, ExitCode: -1, Elapsed: time.Since(start), Cause: err}
	}
	pid := cmd.Process.Pid

	// Buffered so the waiter never blocks if nobody is left to receive.
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return exitOutcome(err, pid, time.Since(start))

	case <-timer.C:
		// The task may have exited in the same instant; prefer its result.
		select {
		case err := <-done:
			return exitOutcome(err, pid, time.Since(start))
		default:
		}
		out := Outcome{Kind: TimedOut, ExitCode: -1, PID: pid}
		out.Cause = s.stop(cmd, done, "timeout")
		out.Elapsed = time.Since(start)
		return out

	case <-ctx.Done():
		cause := ctx.Err()
		if err := s.stop(cmd, done, "canceled"); err != nil {
			cause = errors.Join(cause, err)
		}
		return Outcome{Kind: Failed, ExitCode: -1, PID: pid, Elapsed: time.Since(start), Cause: cause}
	}
}

// stop asks the task to exit and kills it if it is still running after the
// stop grace. It returns ErrReapTimeout when even the kill is not reaped in
// time.
func (s *Supervisor) stop(cmd *exec.Cmd, done <-chan error, reason string) error {
	pid := cmd.Process.Pid
	logger := s.logger.With("pid", pid, "reason", reason)

	if s.stopGrace > 0 {
		logger.Debug("asking task to stop", "stop_grace", s.stopGrace)
		if err := interrupt(cmd, s.processGroup); err != nil {
			logger.Warn("stop signal failed", "error", err)
		}

		grace := time.NewTimer(s.stopGrace)
		defer grace.Stop()
		select {
		case <-done:
			return nil
		case <-grace.C:
		}
	}

	logger.Debug("killing task")
	if err := terminate(cmd, s.processGroup); err != nil {
		logger.Warn("kill task failed", "error", err)
	}
	return s.reap(done, pid)
}

// reap waits up to the grace period for the killed task's Wait to return.
// On expiry the waiter goroutine keeps running and reaps the process when
// it finally exits.
func (s *Supervisor) reap(done <-chan error, pid int) error {
	grace := time.NewTimer(s.grace)
	defer grace.Stop()

	select {
	case <-done:
		return nil
	case <-grace.C:
		s.logger.Error("killed task still running after grace period", "pid", pid, "grace", s.grace)
		return ErrReapTimeout
	}
}

// exitOutcome classifies the result of cmd.Wait.
func exitOutcome(err error, pid int, elapsed time.Duration) Outcome {
	if err == nil {
		return Outcome{Kind: Success, ExitCode: 0, PID: pid, Elapsed: elapsed}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Outcome{Kind: Failed, ExitCode: exitErr.ExitCode(), PID: pid, Elapsed: elapsed, Cause: err}
	}
	return Outcome{Kind: Failed, ExitCode: -1, PID: pid, Elapsed: elapsed, Cause: err}
}
