package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NIGHTLOOP_"

// envSetting applies one environment variable to a Config.
type envSetting struct {
	name  string
	apply func(cfg *Config, value string) error
}

// envSettings lists the supported overrides in the order they are applied.
var envSettings = []envSetting{
	{"WINDOW_NAME", func(c *Config, v string) error { c.Window.Name = v; return nil }},
	{"WINDOW_WIDTH", func(c *Config, v string) error { return parseUint32(v, &c.Window.Width) }},
	{"WINDOW_HEIGHT", func(c *Config, v string) error { return parseUint32(v, &c.Window.Height) }},
	{"MEMORY_BUDGET", func(c *Config, v string) error { return c.Memory.Budget.UnmarshalText([]byte(v)) }},
	{"MEMORY_VALIDATION", func(c *Config, v string) error { return parseBool(v, &c.Memory.Validation) }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil }},
	{"LOG_COLOR", func(c *Config, v string) error { return parseBool(v, &c.Log.Color) }},
	{"INPUT_RELEASE_AFTER", func(c *Config, v string) error { return c.Input.ReleaseAfter.UnmarshalText([]byte(v)) }},
	{"PLATFORM_BACKEND", func(c *Config, v string) error { c.Platform.Backend = strings.ToLower(v); return nil }},
	{"SCRIPT_PATH", func(c *Config, v string) error { c.Script.Path = v; return nil }},
}

// EnvNames returns the full names of the supported environment variables.
func EnvNames() []string {
	names := make([]string, len(envSettings))
	for i, s := range envSettings {
		names[i] = EnvPrefix + s.name
	}
	return names
}

// applyEnv applies every set override. Empty values count as set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, s := range envSettings {
		name := EnvPrefix + s.name
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := s.apply(cfg, value); err != nil {
			return &ParseError{Path: "$" + name, Message: err.Error(), Err: err}
		}
	}
	return nil
}

// parseBool accepts the usual spellings: true/false, yes/no, on/off, 1/0.
func parseBool(s string, dst *bool) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	return nil
}

func parseUint32(s string, dst *uint32) error {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*dst = uint32(n)
	return nil
}
