// Package report renders one day of the activity log for the viewer.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/acvinq/internal/activity"
)

// ClockLayout is the time-of-day shown for each entry.
const ClockLayout = "15:04"

// Entry is one rendered record.
type Entry struct {
	ID          int64     `json:"id" yaml:"id"`
	Time        string    `json:"time" yaml:"time"`
	Description string    `json:"description" yaml:"description"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`

	// GapMinutes is the whole minutes since the previous entry; zero for the
	// first entry of the day.
	GapMinutes int    `json:"gap_minutes,omitempty" yaml:"gap_minutes,omitempty"`
	Gap        string `json:"gap,omitempty" yaml:"gap,omitempty"`
}

// Day is the report for one calendar day.
type Day struct {
	Day     activity.Day `json:"day" yaml:"day"`
	Count   int          `json:"count" yaml:"count"`
	First   string       `json:"first,omitempty" yaml:"first,omitempty"`
	Last    string       `json:"last,omitempty" yaml:"last,omitempty"`
	Entries []Entry      `json:"entries" yaml:"entries"`
}

// Build assembles the report for day from records in log order.
func Build(day activity.Day, records []activity.Record) Day {
	rep := Day{
		Day:     day,
		Count:   len(records),
		Entries: make([]Entry, 0, len(records)),
	}

	for i, rec := range records {
		e := Entry{
			ID:          rec.ID,
			Time:        rec.Timestamp.Format(ClockLayout),
			Description: rec.Description,
			Timestamp:   rec.Timestamp,
		}
		if i > 0 {
			if gap := rec.Timestamp.Sub(records[i-1].Timestamp); gap >= time.Minute {
				e.GapMinutes = int(gap / time.Minute)
				e.Gap = FormatGap(e.GapMinutes)
			}
		}
		rep.Entries = append(rep.Entries, e)
	}

	if len(rep.Entries) > 0 {
		rep.First = rep.Entries[0].Time
		rep.Last = rep.Entries[len(rep.Entries)-1].Time
	}
	return rep
}

// FormatGap renders a positive gap: "45min later", "2h later",
// "1h30m later".
func FormatGap(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin later", minutes)
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return fmt.Sprintf("%dh later", hours)
	}
	return fmt.Sprintf("%dh%dm later", hours, rest)
}

// WriteText writes the human-readable report. Colour is used only when w
// supports it.
func WriteText(w io.Writer, rep Day) error {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	clock := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#fbf1c7"))
	muted := r.NewStyle().Foreground(lipgloss.Color("#928374"))

	var b strings.Builder
	b.WriteString(heading.Render("Activities for " + rep.Day.Start().Format("02/01/2006")))
	b.WriteString("\n\n")

	if len(rep.Entries) == 0 {
		b.WriteString("No activities recorded for this day.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, e := range rep.Entries {
		b.WriteString(clock.Render(e.Time))
		b.WriteString("  ")
		b.WriteString(e.Description)
		b.WriteString("\n")
		if e.Gap != "" {
			b.WriteString("       ")
			b.WriteString(muted.Render(e.Gap))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(heading.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total records: %d\n", rep.Count)
	fmt.Fprintf(&b, "First record: %s\n", rep.First)
	fmt.Fprintf(&b, "Last record: %s\n", rep.Last)

	_, err := io.WriteString(w, b.String())
	return err
}
