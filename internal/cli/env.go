package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/acvinq/internal/config"
)

// now returns the configured clock.
func (o *RootOptions) now() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}

// resolvePaths returns the config file and database paths, filling in the
// per-user defaults for whichever flag was not given.
func (o *RootOptions) resolvePaths() (cfgPath, dbPath string, err error) {
	cfgPath, dbPath = o.ConfigPath, o.Database
	if cfgPath != "" && dbPath != "" {
		return cfgPath, dbPath, nil
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return "", "", WrapExitError(ExitCommandError, "failed to locate config directory", err)
	}
	if cfgPath == "" {
		cfgPath = paths.ConfigFile()
	}
	if dbPath == "" {
		dbPath = paths.Database()
	}
	return cfgPath, dbPath, nil
}

// newLogger configures a text logger on w based on the verbose flag and
// installs it as the default.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM. The returned stop function releases the handler.
func signalContext(cmd *cobra.Command, logger *slog.Logger) (context.Context, func()) {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
		<-done
	}
}
