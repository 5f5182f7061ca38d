package cli

import (
	"context"
	"errors"
	"io"
)

// Execute runs the root command with args and returns the process exit
// code. Errors are reported on errOut in the selected format.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, errOut io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdin, stdout, errOut)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdin io.Reader, stdout, errOut io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	// Commands return ExitErrors; anything else is a usage error from
	// argument parsing.
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = WrapExitError(ExitCommandError, "invalid command line", err)
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	f := &OutputFormatter{Format: format, Writer: errOut, Verbose: opts.Verbose}
	_ = f.Error(ErrorCode(err), err.Error(), nil)
	return GetExitCode(err)
}
