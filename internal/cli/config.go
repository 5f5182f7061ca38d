package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/acvinq/internal/config"
)

// ConfigView is the structured output of "config show".
type ConfigView struct {
	Path     string        `json:"path" yaml:"path"`
	Database string        `json:"database" yaml:"database"`
	Config   config.Config `json:"config" yaml:"config"`
	Interval string        `json:"interval" yaml:"interval"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change the settings in config.toml.

A running daemon keeps the interval it started with; restart it to apply
a new one.`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigSetIntervalCommand(rootOpts))
	cmd.AddCommand(newConfigSetThemeCommand(rootOpts))

	return cmd
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the current settings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, dbPath, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}

			view := ConfigView{Path: cfgPath, Database: dbPath, Config: cfg, Interval: cfg.FormatInterval()}
			return opts.formatter(cmd).Render(view, func(w io.Writer) error {
				return writeConfigText(w, view)
			})
		},
	}
}

func writeConfigText(w io.Writer, v ConfigView) error {
	labels := make([]string, 0, len(config.AvailableIntervals()))
	for _, p := range config.AvailableIntervals() {
		labels = append(labels, p.Label)
	}

	_, err := fmt.Fprintf(w, `Config file:       %s
Database:          %s
Interval:          %s
Theme:             %s
Auto-start daemon: %t
Presets:           %s
`,
		v.Path, v.Database, v.Interval, v.Config.Theme, v.Config.AutoStartDaemon,
		strings.Join(labels, ", "))
	return err
}

func newConfigSetIntervalCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-interval <minutes>",
		Short: "Set the daemon interval in minutes",
		Long: `Set the number of minutes between inquiries (1 to 1440).

Example:
  acvinq config set-interval 30`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return WrapExitError(ExitCommandError, "interval must be a whole number of minutes", err)
			}
			return updateConfig(opts, cmd, func(cfg *config.Config) {
				cfg.DaemonIntervalMinutes = minutes
			}, func(cfg config.Config) string {
				return fmt.Sprintf("Interval set to %s. Restart the daemon to apply it.", cfg.FormatInterval())
			})
		},
	}
}

func newConfigSetThemeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-theme <GruvboxDark|GruvboxLight>",
		Short: "Set the prompt colour theme",
		Args:  cobra.ExactArgs(1),
		ValidArgs: []string{
			string(config.ThemeGruvboxDark),
			string(config.ThemeGruvboxLight),
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(opts, cmd, func(cfg *config.Config) {
				cfg.Theme = config.Theme(args[0])
			}, func(cfg config.Config) string {
				return fmt.Sprintf("Theme set to %s.", cfg.Theme)
			})
		},
	}
}

// updateConfig loads, mutates and saves the config file, then reports
// the new settings.
func updateConfig(opts *RootOptions, cmd *cobra.Command, mutate func(*config.Config), message func(config.Config) string) error {
	cfgPath, _, err := opts.resolvePaths()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	mutate(&cfg)
	if err := config.Save(cfgPath, cfg); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return WrapExitError(ExitCommandError, "invalid setting", err)
		}
		return WrapExitError(ExitFailure, "failed to save config", err)
	}

	f := opts.formatter(cmd)
	if f.Format == "text" {
		return f.Success(message(cfg))
	}
	return f.Success(cfg)
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return config.Config{}, WrapExitError(ExitCommandError, "invalid config", err)
		}
		return config.Config{}, WrapExitError(ExitFailure, "failed to load config", err)
	}
	return cfg, nil
}
