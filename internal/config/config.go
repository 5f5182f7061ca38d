// Package config loads and saves the user's settings file and resolves
// the per-user paths of the settings file and the activity database.
//
// The file is TOML and is validated against an embedded CUE schema on
// every load and save. A missing file is created with defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
)

//go:embed schema.cue
var schemaCUE string

// DefaultIntervalMinutes is the daemon cadence when none is configured.
const DefaultIntervalMinutes = 60

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Theme selects the accent palette of the terminal surfaces.
type Theme string

const (
	ThemeGruvboxDark  Theme = "GruvboxDark"
	ThemeGruvboxLight Theme = "GruvboxLight"
)

// Config is the settings record. It is read once per run and treated as
// immutable afterwards.
type Config struct {
	DaemonIntervalMinutes int   `toml:"daemon_interval_minutes" json:"daemon_interval_minutes" yaml:"daemon_interval_minutes"`
	Theme                 Theme `toml:"theme" json:"theme" yaml:"theme"`

	// AutoStartDaemon is kept for the settings surface; the daemon ignores it.
	AutoStartDaemon bool `toml:"auto_start_daemon" json:"auto_start_daemon" yaml:"auto_start_daemon"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DaemonIntervalMinutes: DefaultIntervalMinutes,
		Theme:                 ThemeGruvboxDark,
		AutoStartDaemon:       false,
	}
}

// Interval returns the daemon cadence as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.DaemonIntervalMinutes) * time.Minute
}

// FormatInterval renders the configured cadence for humans.
func (c Config) FormatInterval() string {
	return FormatInterval(c.DaemonIntervalMinutes)
}

// Load reads the configuration at path. A missing file is created with
// Default values, which are returned. Fields absent from the file keep
// their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save validates cfg and writes it to path, creating the directory.
// The file is replaced atomically.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

var (
	// cue.Context is not safe for concurrent use.
	schemaMu  sync.Mutex
	schemaDef cue.Value
	schemaErr error
	schemaSet bool
)

func configSchema() (cue.Value, error) {
	if !schemaSet {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile config schema: %w", err)
		} else {
			schemaDef = v.LookupPath(cue.ParsePath("#Config"))
			if err := schemaDef.Err(); err != nil {
				schemaErr = fmt.Errorf("lookup #Config: %w", err)
			}
		}
		schemaSet = true
	}
	return schemaDef, schemaErr
}

// Validate checks cfg against the CUE schema.
func (c Config) Validate() error {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	def, err := configSchema()
	if err != nil {
		return err
	}

	val := def.Context().Encode(c)
	if err := val.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
