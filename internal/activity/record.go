package activity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the fixed-width RFC 3339 layout used for persisted
// timestamps. Values keep the local offset they were captured in.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DayLayout is the ISO calendar date layout used for the day column.
const DayLayout = "2006-01-02"

// ErrEmptyDescription is returned when a description is blank after
// normalisation.
var ErrEmptyDescription = errors.New("activity description is empty")

// Record is one logged answer.
type Record struct {
	// ID is assigned by the store on insert. Zero means "not persisted".
	ID          int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Description string    `json:"description" yaml:"description"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Day         Day       `json:"day" yaml:"day"`
}

// NewRecord builds an unpersisted record for desc captured at ts.
// The day is derived from ts in ts's own location.
func NewRecord(desc string, ts time.Time) (Record, error) {
	normalized := NormalizeDescription(desc)
	if normalized == "" {
		return Record{}, ErrEmptyDescription
	}
	return Record{
		Description: normalized,
		Timestamp:   ts,
		Day:         DayOf(ts),
	}, nil
}

// NormalizeDescription trims surrounding whitespace and applies NFC so
// that visually identical answers compare equal.
func NormalizeDescription(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatInstant renders t in UTC using TimestampLayout. Instants compare
// lexically in time order regardless of the offset t was captured in.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a persisted timestamp. RFC 3339 values written by
// other tools (variable fraction width) are accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.Local(), nil
}
