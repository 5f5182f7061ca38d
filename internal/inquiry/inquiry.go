// Package inquiry runs one interactive inquiry: it builds a planner from
// the store's state for today and drives it with a Prompter until an
// answer is persisted or the user dismisses the prompt.
//
// This is the body of the --inquiry entry point that the daemon re-execs
// under the supervisor's timeout.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/acvinq/internal/activity"
	"github.com/roach88/acvinq/internal/planner"
)

// RoundIDEnv carries the daemon's round identifier into the child process.
const RoundIDEnv = "ACVINQ_ROUND_ID"

// User-facing feedback shown through Prompter.Notify.
const (
	MsgSaved     = "Activity saved."
	MsgContinued = "Continued activity recorded."
	MsgEmpty     = "Please type an activity."
)

// ErrDismissed is returned by a Prompter when the user closes the prompt
// without answering.
var ErrDismissed = errors.New("inquiry dismissed")

// Prompter is the interactive surface.
type Prompter interface {
	// AskOpen shows question and returns the free-text answer.
	AskOpen(ctx context.Context, question string) (string, error)

	// AskYesNo shows question and returns true for yes.
	AskYesNo(ctx context.Context, question string) (bool, error)

	// Notify shows a short status message.
	Notify(message string)
}

// Result summarizes a finished inquiry.
type Result struct {
	// Record is the persisted answer; nil when dismissed.
	Record    *activity.Record
	Dismissed bool

	// Prompts counts questions shown, including re-prompts.
	Prompts int
}

// Task is one inquiry invocation.
type Task struct {
	Store    planner.Store
	Prompter Prompter

	// Now defaults to time.Now; it decides which day "today" is.
	Now     func() time.Time
	Logger  *slog.Logger
	RoundID string
}

// Run drives the planner to Done. Store failures are returned; a dismissed
// prompt is a normal result.
func (t *Task) Run(ctx context.Context) (Result, error) {
	now := t.Now
	if now == nil {
		now = time.Now
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if t.RoundID != "" {
		logger = logger.With("round_id", t.RoundID)
	}

	day := activity.Today(now())
	p, err := planner.New(ctx, t.Store, day, planner.WithLogger(logger))
	if err != nil {
		return Result{}, fmt.Errorf("start inquiry: %w", err)
	}
	logger.Debug("inquiry started", "day", day.String(), "state", p.State().String())

	var res Result
	for p.State() != planner.Done {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		prompt := p.Prompt()
		res.Prompts++

		switch prompt.State {
		case planner.FirstQuestion:
			answer, err := t.Prompter.AskOpen(ctx, prompt.Question)
			if errors.Is(err, ErrDismissed) {
				return t.dismissed(logger, res), nil
			}
			if err != nil {
				return res, fmt.Errorf("ask open question: %w", err)
			}

			accepted, err := p.Answer(ctx, answer)
			if err != nil {
				t.Prompter.Notify(fmt.Sprintf("Could not save: %v", err))
				return res, err
			}
			if !accepted {
				t.Prompter.Notify(MsgEmpty)
				continue
			}
			t.Prompter.Notify(MsgSaved)

		case planner.ContinuationQuestion:
			yes, err := t.Prompter.AskYesNo(ctx, prompt.Question)
			if errors.Is(err, ErrDismissed) {
				return t.dismissed(logger, res), nil
			}
			if err != nil {
				return res, fmt.Errorf("ask continuation: %w", err)
			}

			if err := p.Confirm(ctx, yes); err != nil {
				t.Prompter.Notify(fmt.Sprintf("Could not save: %v", err))
				return res, err
			}
			if yes {
				t.Prompter.Notify(MsgContinued)
			}

		default:
			return res, fmt.Errorf("unexpected planner state %s", prompt.State)
		}
	}

	res.Record = p.Saved()
	logger.Info("activity recorded",
		"id", res.Record.ID,
		"description", res.Record.Description,
		"prompts", res.Prompts,
	)
	return res, nil
}

func (t *Task) dismissed(logger *slog.Logger, res Result) Result {
	logger.Info("inquiry dismissed", "prompts", res.Prompts)
	res.Dismissed = true
	return res
}
