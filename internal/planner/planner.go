// Package planner decides which question an inquiry asks and applies the
// user's answer to the activity store.
//
// A Planner is built fresh for every inquiry from what the store holds for
// the day; nothing is carried between inquiries.
//
//	count == 0               -> FirstQuestion
//	count > 0, last != nil   -> ContinuationQuestion
//	count > 0, last == nil   -> FirstQuestion (store inconsistency)
//
//	FirstQuestion        --non-empty answer/append--> Done
//	FirstQuestion        --empty answer-->            FirstQuestion
//	ContinuationQuestion --yes/append(last)-->        Done
//	ContinuationQuestion --no-->                      FirstQuestion
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/acvinq/internal/activity"
)

// State is the planner's position within one inquiry.
type State int

const (
	// FirstQuestion asks an open-ended "what are you doing" question.
	FirstQuestion State = iota + 1

	// ContinuationQuestion asks whether the last logged activity is ongoing.
	ContinuationQuestion

	// Done is terminal: an answer has been persisted.
	Done
)

func (s State) String() string {
	switch s {
	case FirstQuestion:
		return "first_question"
	case ContinuationQuestion:
		return "continuation_question"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// OpenQuestion is the prompt text of FirstQuestion.
const OpenQuestion = "What are you doing right now?"

// ContinuationText is the prompt text of ContinuationQuestion for desc.
func ContinuationText(desc string) string {
	return `Are you still doing "` + desc + `"?`
}

// ErrWrongState is returned when an answer does not fit the current state.
var ErrWrongState = errors.New("answer does not match the current question")

// Store is the subset of the activity store the planner needs.
// Implemented by *store.Store.
type Store interface {
	Append(ctx context.Context, desc string) (activity.Record, error)
	LastForDay(ctx context.Context, day activity.Day) (*activity.Record, error)
	CountForDay(ctx context.Context, day activity.Day) (int, error)
}

// Prompt describes the question to show.
type Prompt struct {
	State    State
	Question string

	// Last is the record being confirmed in ContinuationQuestion.
	Last *activity.Record
}

// Planner is the per-inquiry question state machine.
// Not safe for concurrent use; one inquiry drives one planner.
type Planner struct {
	store  Store
	day    activity.Day
	logger *slog.Logger

	state State
	last  *activity.Record
	saved *activity.Record
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// New reads the store's state for day and picks the starting question.
func New(ctx context.Context, s Store, day activity.Day, opts ...Option) (*Planner, error) {
	p := &Planner{store: s, day: day, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	count, err := s.CountForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("plan question: %w", err)
	}

	if count == 0 {
		p.state = FirstQuestion
		return p, nil
	}

	last, err := s.LastForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("plan question: %w", err)
	}
	if last == nil {
		p.logger.Warn("day has records but no last record, asking open question",
			"day", day.String(),
			"count", count,
		)
		p.state = FirstQuestion
		return p, nil
	}

	p.state = ContinuationQuestion
	p.last = last
	return p, nil
}

// State returns the current state.
func (p *Planner) State() State {
	return p.state
}

// Day returns the day the planner was built for.
func (p *Planner) Day() activity.Day {
	return p.day
}

// Saved returns the record persisted by the terminal transition, or nil.
func (p *Planner) Saved() *activity.Record {
	return p.saved
}

// Prompt returns the question for the current state.
func (p *Planner) Prompt() Prompt {
	switch p.state {
	case ContinuationQuestion:
		return Prompt{State: p.state, Question: ContinuationText(p.last.Description), Last: p.last}
	case FirstQuestion:
		return Prompt{State: p.state, Question: OpenQuestion}
	default:
		return Prompt{State: p.state}
	}
}

// Answer applies an open-ended answer in FirstQuestion.
//
// A blank answer is not an error: it returns accepted=false and the planner
// stays in FirstQuestion so the caller re-prompts. A non-empty answer is
// appended and the planner moves to Done. If the append fails the state is
// unchanged and the store error is returned.
func (p *Planner) Answer(ctx context.Context, text string) (accepted bool, err error) {
	if p.state != FirstQuestion {
		return false, fmt.Errorf("answer in %s: %w", p.state, ErrWrongState)
	}

	desc := activity.NormalizeDescription(text)
	if desc == "" {
		return false, nil
	}

	rec, err := p.store.Append(ctx, desc)
	if err != nil {
		return false, fmt.Errorf("save answer: %w", err)
	}

	p.saved = &rec
	p.state = Done
	return true, nil
}

// Confirm applies a yes/no answer in ContinuationQuestion.
//
// Yes appends a fresh record with the last description and moves to Done.
// No moves back to FirstQuestion without writing.
func (p *Planner) Confirm(ctx context.Context, stillDoing bool) error {
	if p.state != ContinuationQuestion {
		return fmt.Errorf("confirm in %s: %w", p.state, ErrWrongState)
	}

	if !stillDoing {
		p.state = FirstQuestion
		return nil
	}

	rec, err := p.store.Append(ctx, p.last.Description)
	if err != nil {
		return fmt.Errorf("save continuation: %w", err)
	}

	p.saved = &rec
	p.state = Done
	return nil
}
