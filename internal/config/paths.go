package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppDirName is the directory created under the user config directory.
	AppDirName = "activity-inquirer"

	// FileName is the settings file name.
	FileName = "config.toml"

	// DatabaseFileName is the activity log file name.
	DatabaseFileName = "activities.db"

	// DirEnv overrides the per-user directory. The daemon passes its
	// resolved paths to the inquiry process explicitly, so this is mostly
	// for tests and portable installs.
	DirEnv = "ACVINQ_CONFIG_DIR"
)

// Paths locates the files of one installation.
type Paths struct {
	Dir string
}

// DefaultPaths resolves the per-user directory: $ACVINQ_CONFIG_DIR, or
// <os.UserConfigDir>/activity-inquirer.
func DefaultPaths() (Paths, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return Paths{Dir: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("locate user config directory: %w", err)
	}
	return Paths{Dir: filepath.Join(base, AppDirName)}, nil
}

// ConfigFile returns the settings file path.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Dir, FileName)
}

// Database returns the activity database path.
func (p Paths) Database() string {
	return filepath.Join(p.Dir, DatabaseFileName)
}
