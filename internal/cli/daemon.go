package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/acvinq/internal/config"
	"github.com/roach88/acvinq/internal/inquiry"
	"github.com/roach88/acvinq/internal/prompt"
	"github.com/roach88/acvinq/internal/scheduler"
	"github.com/roach88/acvinq/internal/supervisor"
)

// DaemonOptions holds flags for the daemon command.
type DaemonOptions struct {
	*RootOptions

	// Timeout bounds each inquiry. Zero means supervisor.DefaultTimeout.
	Timeout time.Duration

	// Task overrides the inquiry process (for testing). If nil, the running
	// binary is re-executed with --inquiry.
	Task *supervisor.Task

	// IDs and Ticker override round identifiers and the interval ticker
	// (for testing).
	IDs    scheduler.IDGenerator
	Ticker func(time.Duration) scheduler.Ticker
}

// NewDaemonCommand creates the daemon command.
func NewDaemonCommand(rootOpts *RootOptions) *cobra.Command {
	return newDaemonCommand(&DaemonOptions{RootOptions: rootOpts})
}

func newDaemonCommand(opts *DaemonOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Ask on the configured interval until interrupted",
		Long: `Run the inquiry scheduler in the foreground.

The first inquiry is asked immediately, then one per configured interval.
Each inquiry runs as a separate process and is killed if it is still open
after the timeout. Failed or abandoned inquiries never stop the daemon.

Same as "acvinq --daemon".

Example:
  acvinq daemon
  acvinq daemon --timeout 2m --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts, cmd)
		},
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = supervisor.DefaultTimeout
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", timeout, "maximum duration of one inquiry")

	return cmd
}

func runDaemon(opts *DaemonOptions, cmd *cobra.Command) error {
	logger := opts.newLogger(cmd.ErrOrStderr())

	cfgPath, dbPath, err := opts.resolvePaths()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logger.Debug("config loaded", "path", cfgPath, "interval_minutes", cfg.DaemonIntervalMinutes)

	task, err := opts.inquiryTask(cfgPath, dbPath)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to prepare inquiry", err)
	}

	supOpts := []supervisor.Option{supervisor.WithLogger(logger)}
	if opts.Timeout > 0 {
		supOpts = append(supOpts, supervisor.WithTimeout(opts.Timeout))
	}
	// A process group detached from the terminal cannot read it, so the
	// inquiry only gets its own group when there is no terminal to share.
	stdin, isFile := cmd.InOrStdin().(*os.File)
	supOpts = append(supOpts, supervisor.WithProcessGroup(!isFile || !prompt.IsTerminal(stdin)))
	sup := supervisor.New(supOpts...)

	runner := scheduler.RunnerFunc(func(ctx context.Context, round scheduler.Round) supervisor.Outcome {
		return sup.RunBounded(ctx, task.WithEnv(inquiry.RoundIDEnv+"="+round.ID))
	})

	schedOpts := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithClock(opts.now()),
		scheduler.WithRoundTimeout(sup.Timeout()),
	}
	if opts.IDs != nil {
		schedOpts = append(schedOpts, scheduler.WithIDGenerator(opts.IDs))
	}
	if opts.Ticker != nil {
		schedOpts = append(schedOpts, scheduler.WithTicker(opts.Ticker))
	}
	sched, err := scheduler.New(cfg.Interval(), runner, schedOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid interval", err)
	}

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Activity Inquirer daemon started.")
	fmt.Fprintf(out, "Asking every %s. Database: %s\n", cfg.FormatInterval(), dbPath)
	fmt.Fprintln(out, "Press Ctrl+C to stop.")

	if err := sched.RunForever(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "scheduler error", err)
	}

	logger.Info("daemon stopped", "rounds", sched.Rounds())
	return nil
}

// inquiryTask builds the process each round runs. The child gets the
// resolved paths explicitly so it reads the same files as the daemon.
func (o *DaemonOptions) inquiryTask(cfgPath, dbPath string) (supervisor.Task, error) {
	if o.Task != nil {
		return *o.Task, nil
	}

	args := []string{"--inquiry", "--config", cfgPath, "--db", dbPath}
	if o.Verbose {
		args = append(args, "--verbose")
	}
	return supervisor.SelfTask(args...)
}
