package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	// Database and ConfigPath override the per-user paths.
	Database   string
	ConfigPath string

	// Daemon and Inquiry select the two background entry points on the
	// root command itself; the daemon re-executes the binary with --inquiry.
	Daemon  bool
	Inquiry bool

	// Now overrides the wall clock (for testing). Defaults to time.Now.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the acvinq CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acvinq",
		Short: "Activity Inquirer - a personal activity log",
		Long: `Activity Inquirer periodically asks what you are doing and keeps the
answers in a local SQLite log, one list per day.

Without flags it shows today's activities.

Example:
  acvinq                  # today's activities
  acvinq --daemon         # ask on the configured interval
  acvinq --inquiry        # ask once, now
  acvinq list --date yesterday --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.Daemon && opts.Inquiry:
				return NewExitError(ExitCommandError, "--daemon and --inquiry are mutually exclusive")
			case opts.Daemon:
				return runDaemon(&DaemonOptions{RootOptions: opts}, cmd)
			case opts.Inquiry:
				return runInquiry(opts, cmd)
			}
			return runList(&ListOptions{RootOptions: opts}, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the activity database (default: per-user config directory)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config.toml (default: per-user config directory)")

	cmd.Flags().BoolVar(&opts.Daemon, "daemon", false, "run the inquiry scheduler until interrupted")
	cmd.Flags().BoolVar(&opts.Inquiry, "inquiry", false, "ask one inquiry and exit")

	// Add subcommands
	cmd.AddCommand(NewDaemonCommand(opts))
	cmd.AddCommand(NewInquiryCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
