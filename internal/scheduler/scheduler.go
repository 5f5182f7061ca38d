package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/acvinq/internal/supervisor"
)

// ErrInvalidInterval is returned by New for a non-positive interval.
var ErrInvalidInterval = errors.New("interval must be positive")

// Round identifies one inquiry attempt.
type Round struct {
	// Number is 1 for the immediate startup round.
	Number  int
	ID      string
	Started time.Time
}

// Runner performs one bounded inquiry round.
type Runner interface {
	RunRound(ctx context.Context, round Round) supervisor.Outcome
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, round Round) supervisor.Outcome

// RunRound calls f.
func (f RunnerFunc) RunRound(ctx context.Context, round Round) supervisor.Outcome {
	return f(ctx, round)
}

// Ticker is the periodic timer driving the loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Scheduler fires inquiry rounds on a fixed cadence.
//
// Thread-safety model:
//   - RunForever: must be called from exactly one goroutine
//   - Rounds: safe from any goroutine
type Scheduler struct {
	interval     time.Duration
	roundTimeout time.Duration
	runner       Runner
	logger       *slog.Logger
	ids          IDGenerator
	now          func() time.Time
	newTicker    func(time.Duration) Ticker

	rounds atomic.Int64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger for round reports.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithIDGenerator replaces the UUIDv7 round ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Scheduler) {
		s.ids = g
	}
}

// WithClock replaces time.Now for round start times and next-fire reports.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithTicker replaces the time.Ticker factory.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(s *Scheduler) {
		s.newTicker = newTicker
	}
}

// WithRoundTimeout tells the scheduler how long one round may take, so it
// can warn when the interval is shorter. It does not bound rounds itself.
func WithRoundTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.roundTimeout = d
	}
}

// New creates a Scheduler firing every interval.
func New(interval time.Duration, runner Runner, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: %w (got %s)", ErrInvalidInterval, interval)
	}
	if runner == nil {
		return nil, errors.New("scheduler: runner is required")
	}

	s := &Scheduler{
		interval:  interval,
		runner:    runner,
		logger:    slog.Default(),
		ids:       UUIDv7Generator{},
		now:       time.Now,
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Interval returns the configured period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Rounds returns the number of completed rounds.
func (s *Scheduler) Rounds() int {
	return int(s.rounds.Load())
}

// RunForever runs round 1 immediately and then one round per tick.
// Blocks until ctx is cancelled and returns ctx.Err(); there is no other
// exit. A round in flight at cancellation is left to the runner, which
// receives the same ctx. An already cancelled ctx runs no round at all.
func (s *Scheduler) RunForever(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.logger.Info("scheduler not started", "reason", err)
		return err
	}

	s.logger.Info("scheduler starting", "interval", s.interval)
	if s.roundTimeout > 0 && s.interval < s.roundTimeout {
		s.logger.Warn("interval is shorter than the round timeout; late ticks slip",
			"interval", s.interval,
			"round_timeout", s.roundTimeout,
		)
	}

	s.runRound(ctx, 1)

	ticker := s.newTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "rounds", s.Rounds(), "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C():
		}

		// A tick and a cancel can be ready together; cancel wins.
		if err := ctx.Err(); err != nil {
			s.logger.Info("scheduler stopping", "rounds", s.Rounds(), "reason", err)
			return err
		}

		s.runRound(ctx, s.Rounds()+1)
	}
}

// runRound performs and reports one round. Nothing that happens inside the
// runner, including a panic, escapes.
func (s *Scheduler) runRound(ctx context.Context, n int) {
	round := Round{Number: n, ID: s.ids.Generate(), Started: s.now()}
	logger := s.logger.With("round", round.Number, "round_id", round.ID)
	logger.Info("inquiry round starting", "at", round.Started.Format(time.TimeOnly))

	outcome := s.invoke(ctx, round)
	s.rounds.Store(int64(n))

	attrs := []any{
		"outcome", outcome.Kind.String(),
		"exit_code", outcome.ExitCode,
		"elapsed", outcome.Elapsed.Round(time.Millisecond),
	}
	switch {
	case outcome.OK():
		logger.Info("inquiry round completed", attrs...)
	case outcome.Kind == supervisor.Failed, outcome.Kind == supervisor.TimedOut:
		logger.Warn("inquiry round did not complete", append(attrs, "error", outcome.Err())...)
	default:
		logger.Error("inquiry round could not run", append(attrs, "error", outcome.Err())...)
	}

	if ctx.Err() == nil {
		next := s.now().Add(s.interval)
		logger.Info("next inquiry scheduled", "next", next.Format(time.TimeOnly))
	}
}

func (s *Scheduler) invoke(ctx context.Context, round Round) (out supervisor.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = supervisor.Outcome{
				Kind:     supervisor.Failed,
				ExitCode: -1,
				Cause:    fmt.Errorf("round runner panicked: %v", r),
			}
		}
	}()
	return s.runner.RunRound(ctx, round)
}
