// Package config provides engine configuration: defaults, TOML and YAML
// files, NIGHTLOOP_* environment overrides, validation and a file watcher
// for live reload.
//
// Precedence, lowest first:
//
//	defaults < config file < environment < command-line flags
//
// Flags are applied by the caller after Load returns.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/nightloop/internal/logging"
)

// Backend names accepted by Platform.Backend.
const (
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// Limits enforced by Validate.
const (
	MaxWindowDimension = 16384
	MaxReleaseAfter    = 10 * time.Second
)

// Config is the complete engine configuration.
type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Memory   MemoryConfig   `toml:"memory" yaml:"memory"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Input    InputConfig    `toml:"input" yaml:"input"`
	Platform PlatformConfig `toml:"platform" yaml:"platform"`
	Script   ScriptConfig   `toml:"script" yaml:"script"`
}

// WindowConfig configures the application window. Sizes are in cells.
type WindowConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
}

// MemoryConfig configures the allocator.
type MemoryConfig struct {
	// Budget is advisory; it only appears in usage reports.
	Budget Size `toml:"budget" yaml:"budget"`
	// Validation enables invariant checks in the allocator and containers.
	Validation bool `toml:"validation" yaml:"validation"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	Color bool   `toml:"color" yaml:"color"`
}

// InputConfig configures input handling.
type InputConfig struct {
	// ReleaseAfter is how long a terminal key stays down without a repeat.
	ReleaseAfter Duration `toml:"release_after" yaml:"release_after"`
}

// PlatformConfig selects the platform backend.
type PlatformConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
}

// ScriptConfig configures the Lua game.
type ScriptConfig struct {
	// Path is the game script. Empty runs the built-in testbed.
	Path string `toml:"path" yaml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Name:   "Nightloop Engine Testbed",
			Width:  80,
			Height: 24,
		},
		Memory: MemoryConfig{
			Budget: Size(64 << 20),
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
		Input: InputConfig{
			ReleaseAfter: Duration(600 * time.Millisecond),
		},
		Platform: PlatformConfig{
			Backend: BackendTerminal,
		},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Validate checks every setting and returns all failures joined, each a
// *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, msg string, value any) {
		errs = append(errs, &ValidationError{Field: field, Message: msg, Value: value})
	}

	if c.Window.Name == "" {
		fail("window.name", "must not be empty", c.Window.Name)
	}
	if c.Window.Width == 0 || c.Window.Width > MaxWindowDimension {
		fail("window.width", fmt.Sprintf("must be between 1 and %d", MaxWindowDimension), c.Window.Width)
	}
	if c.Window.Height == 0 || c.Window.Height > MaxWindowDimension {
		fail("window.height", fmt.Sprintf("must be between 1 and %d", MaxWindowDimension), c.Window.Height)
	}
	if c.Memory.Budget == 0 {
		fail("memory.budget", "must be positive", c.Memory.Budget)
	}
	if !logging.ValidLevel(c.Log.Level) {
		fail("log.level", "must be one of trace, debug, info, warn, error, fatal", c.Log.Level)
	}
	if d := c.Input.ReleaseAfter.Std(); d <= 0 || d > MaxReleaseAfter {
		fail("input.release_after", fmt.Sprintf("must be between 1ns and %s", MaxReleaseAfter), c.Input.ReleaseAfter)
	}
	if !slices.Contains([]string{BackendTerminal, BackendHeadless}, c.Platform.Backend) {
		fail("platform.backend", "must be terminal or headless", c.Platform.Backend)
	}

	return errors.Join(errs...)
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
