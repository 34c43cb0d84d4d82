// Package config reads and writes the hearth TOML config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/hearth/internal/constants"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	// Driver is sqlite or postgres. The PostgreSQL connection string is never
	// stored here; it comes from the OS keyring or HEARTH_DB_CONNECTION.
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

type Watch struct {
	Interval string `toml:"interval"`
}

type Config struct {
	Database Database `toml:"database"`
	// Family and Member select the household and the acting member for
	// commands that need them. Both are set by `family create` and `family join`.
	Family        string `toml:"family"`
	Member        string `toml:"member"`
	DefaultFilter string `toml:"default_filter"`
	OccurrenceCap int    `toml:"occurrence_cap"`
	Debug         bool   `toml:"debug"`
	Watch         Watch  `toml:"watch"`
}

func Default() Config {
	return Config{
		Database: Database{
			Driver: DriverSQLite,
			Path:   constants.DefaultDBPath,
		},
		DefaultFilter: constants.DefaultFilter,
		OccurrenceCap: constants.DefaultOccurrenceCap,
		Watch: Watch{
			Interval: constants.DefaultWatchInterval.String(),
		},
	}
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Missing keys keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path atomically, creating the directory if needed.
func Save(path string, cfg Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0600)
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unknown database.driver %q (expected sqlite|postgres)", c.Database.Driver)
	}

	switch c.DefaultFilter {
	case constants.FilterAll, constants.FilterToday, constants.FilterWeek:
	default:
		return fmt.Errorf("unknown default_filter %q (expected all|today|week)", c.DefaultFilter)
	}

	if c.OccurrenceCap < 1 || c.OccurrenceCap > 1000 {
		return fmt.Errorf("occurrence_cap must be between 1 and 1000, got %d", c.OccurrenceCap)
	}
	if _, err := c.WatchInterval(); err != nil {
		return err
	}
	return nil
}

// WatchInterval parses watch.interval, falling back to the default when unset.
func (c Config) WatchInterval() (time.Duration, error) {
	if c.Watch.Interval == "" {
		return constants.DefaultWatchInterval, nil
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.interval %q: %w", c.Watch.Interval, err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("watch.interval must be at least 1s, got %s", d)
	}
	return d, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
