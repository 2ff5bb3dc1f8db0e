package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
)

// Config represents the optional xfer configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Deferred DeferredConfig `toml:"deferred"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Overwrite     *bool   `toml:"overwrite"`
	PreserveTimes *bool   `toml:"preserve_times"`
	Verify        *bool   `toml:"verify"`
	Retries       *int    `toml:"retries"`
	RetryInterval *int    `toml:"retry_interval"` // seconds
	BWLimit       *string `toml:"bwlimit"`
	ChunkSize     *string `toml:"chunk_size"`
}

// DeferredConfig locates the pending-operation queue used where the OS has
// no native delay-until-reboot support.
type DeferredConfig struct {
	Queue *string `toml:"queue"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "xfer", "config.toml")
}

// StatePath returns the default location of the pending-operation queue.
func StatePath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "xfer", "pending.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file is a zero Config.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that TOML typing alone cannot.
func (c Config) Validate() error {
	d := c.Defaults
	if d.Retries != nil && *d.Retries < 0 {
		return fmt.Errorf("defaults.retries must be >= 0, got %d", *d.Retries)
	}
	if d.RetryInterval != nil && *d.RetryInterval < 0 {
		return fmt.Errorf("defaults.retry_interval must be >= 0, got %d", *d.RetryInterval)
	}
	if d.BWLimit != nil {
		if _, err := ParseSize(*d.BWLimit); err != nil {
			return fmt.Errorf("defaults.bwlimit: %w", err)
		}
	}
	if d.ChunkSize != nil {
		if _, err := ParseSize(*d.ChunkSize); err != nil {
			return fmt.Errorf("defaults.chunk_size: %w", err)
		}
	}
	return nil
}

// RetryIntervalDuration converts the configured interval, if any.
func (d DefaultsConfig) RetryIntervalDuration() (time.Duration, bool) {
	if d.RetryInterval == nil {
		return 0, false
	}
	return time.Duration(*d.RetryInterval) * time.Second, true
}

// QueuePath returns the configured queue path or the XDG state default.
func (c Config) QueuePath() string {
	if c.Deferred.Queue != nil && *c.Deferred.Queue != "" {
		return *c.Deferred.Queue
	}
	return StatePath()
}

// ParseSize parses a human byte size such as "100MB" or "1.5GiB".
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %q too large", s)
	}
	return int64(n), nil
}
