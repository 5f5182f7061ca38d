package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/acvinq/internal/config"
	"github.com/roach88/acvinq/internal/inquiry"
	"github.com/roach88/acvinq/internal/prompt"
	"github.com/roach88/acvinq/internal/store"
)

// NewInquiryCommand creates the inquiry command.
func NewInquiryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inquiry",
		Short: "Ask what you are doing once and record the answer",
		Long: `Ask one inquiry and exit.

On a terminal the question opens a full-screen prompt; otherwise answers
are read line by line from stdin. Closing the prompt (Esc, Ctrl+C, end of
input) records nothing and still exits 0.

Same as "acvinq --inquiry".

Example:
  acvinq inquiry
  echo "reading mail" | acvinq inquiry`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInquiry(rootOpts, cmd)
		},
	}

	return cmd
}

func runInquiry(opts *RootOptions, cmd *cobra.Command) error {
	logger := opts.newLogger(cmd.ErrOrStderr())

	cfgPath, dbPath, err := opts.resolvePaths()
	if err != nil {
		return err
	}

	// The config only styles the prompt here; a broken file must not cost
	// the user an answer.
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("using default config", "path", cfgPath, "error", err)
		cfg = config.Default()
	}

	st, err := store.Open(dbPath, store.WithClock(opts.now()))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open activity store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	task := &inquiry.Task{
		Store:    st,
		Prompter: selectPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Theme),
		Now:      opts.now(),
		Logger:   logger,
		RoundID:  os.Getenv(inquiry.RoundIDEnv),
	}

	res, err := task.Run(ctx)
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			return WrapExitError(ExitFailure, "inquiry interrupted", err)
		}
		return WrapExitError(ExitFailure, "failed to record activity", err)
	}
	if res.Dismissed {
		logger.Debug("nothing recorded")
	}
	return nil
}

// selectPrompter uses the terminal prompt only when both streams are
// terminals.
func selectPrompter(in io.Reader, out io.Writer, theme config.Theme) inquiry.Prompter {
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if inOK && outOK {
		return prompt.ForFiles(inFile, outFile, theme)
	}
	return prompt.NewLine(in, out)
}
