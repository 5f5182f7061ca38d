package cli

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/acvinq/internal/activity"
	"github.com/roach88/acvinq/internal/report"
	"github.com/roach88/acvinq/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Date string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the activities recorded on a day",
		Long: `Show the activities recorded on one day in the order they were logged,
with the time elapsed since the previous entry.

Example:
  acvinq list
  acvinq list --date yesterday
  acvinq list --date 2025-06-02 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "today", "day to show (today|yesterday|YYYY-MM-DD)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	logger := opts.newLogger(cmd.ErrOrStderr())

	day, err := resolveDay(opts.Date, opts.now())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --date", err)
	}

	_, dbPath, err := opts.resolvePaths()
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open activity store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	records, err := st.ListForDay(cmd.Context(), day)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read activities", err)
	}
	logger.Debug("activities loaded", "day", day.String(), "count", len(records))

	rep := report.Build(day, records)
	return opts.formatter(cmd).Render(rep, func(w io.Writer) error {
		return report.WriteText(w, rep)
	})
}

// resolveDay accepts "today", "yesterday" or YYYY-MM-DD. Empty means today.
func resolveDay(s string, now func() time.Time) (activity.Day, error) {
	today := activity.Today(now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	return activity.ParseDay(s)
}
