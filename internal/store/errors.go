package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Kind categorizes store failures.
type Kind int

const (
	// KindUnavailable means the database could not be opened, read or written.
	KindUnavailable Kind = iota + 1

	// KindBusy means another connection held the lock past the busy timeout.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindBusy:
		return "busy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error.
var (
	ErrUnavailable = errors.New("store unavailable")
	ErrBusy        = errors.New("store busy")
)

// Error is the store's error type.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrBusy:
		return e.Kind == KindBusy
	}
	return false
}

// IsUnavailable reports whether err is a KindUnavailable store error.
// Uses errors.As to handle wrapped errors.
func IsUnavailable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindUnavailable
	}
	return false
}

// IsBusy reports whether err is a KindBusy store error.
func IsBusy(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindBusy
	}
	return false
}

// classify wraps a driver error into an *Error. Context errors pass through
// wrapped but unclassified so callers can tell cancellation from failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("store %s: %w", op, err)
	}
	kind := KindUnavailable
	if isBusy(err) {
		kind = KindBusy
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func isBusy(err error) bool {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
