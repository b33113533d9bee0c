package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dshills/nightloop/internal/app"
	"github.com/dshills/nightloop/internal/config"
)

// execute runs the command tree with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

// executeContext is execute with a caller-supplied context.
func executeContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// writeFile writes content to name in a temp directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "nightloop", cmd.Use)

	for _, name := range []string{"run", "config", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "", levelFlag.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	for _, name := range []string{"script", "headless", "frames", "log-file"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run should have --%s", name)
	}
	assert.Equal(t, "0", runCmd.Flags().Lookup("frames").DefValue)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nightloop dev")
	assert.Contains(t, out, "commit: unknown")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "config", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConfig_DefaultsRoundTrip(t *testing.T) {
	out, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[window]")

	path := writeFile(t, "printed.toml", out)
	cfg, err := config.NewLoader(config.WithLookup(nil)).Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfig_FileAndFlags(t *testing.T) {
	path := writeFile(t, "engine.toml", "[window]\nname = \"Demo\"\n\n[log]\nlevel = \"warn\"\n")

	out, _, err := execute(t, "config", "--config", path, "--log-level", "debug", "--format", "yaml")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "Demo", cfg.Window.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.Default().Memory.Budget, cfg.Memory.Budget)
}

func TestConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{name: "bad format", args: []string{"--format", "ini"}, wantErr: "invalid format"},
		{name: "missing file", args: []string{"--config", filepath.Join(os.TempDir(), "nightloop-missing.toml")}, wantErr: "config file not found"},
		{name: "invalid value", file: "[window]\nwidth = 0\n", wantErr: "window.width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"config"}, tt.args...)
			if tt.file != "" {
				args = append(args, "--config", writeFile(t, "engine.toml", tt.file))
			}
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_EnvList(t *testing.T) {
	out, _, err := execute(t, "config", "--env")
	require.NoError(t, err)
	assert.Contains(t, out, "NIGHTLOOP_WINDOW_NAME\n")
	assert.Contains(t, out, "NIGHTLOOP_SCRIPT_PATH\n")
}

func TestRun_HeadlessTestbed(t *testing.T) {
	out, stderr, err := execute(t, "run", "--headless", "--frames", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Nightloop Engine Testbed: 3 frames (0 suspended)")
	assert.Contains(t, stderr, "testbed ready")
}

func TestRun_InterruptedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Without --frames only the interrupt can end a headless run.
	out, stderr, err := executeContext(t, ctx, "run", "--headless")
	require.NoError(t, err)
	assert.Contains(t, out, "Nightloop Engine Testbed: 0 frames")
	assert.Contains(t, stderr, "quit requested: interrupted")
}

func TestRun_ConfigFile(t *testing.T) {
	path := writeFile(t, "engine.yaml", "window:\n  name: Configured\nplatform:\n  backend: headless\n")

	out, _, err := execute(t, "run", "--config", path, "--frames", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Configured: 2 frames")
}

func TestRun_Script(t *testing.T) {
	path := writeFile(t, "game.lua", `
function update()
  if engine.frame() == 2 then engine.quit("done") end
end
`)
	out, _, err := execute(t, "run", "--headless", "--script", path)
	require.NoError(t, err)
	assert.Contains(t, out, "game.lua: 2 frames")
}

func TestRun_ScriptFailure(t *testing.T) {
	path := writeFile(t, "broken.lua", `function update() error("kaput") end`)

	_, stderr, err := execute(t, "run", "--headless", "--script", path)
	require.Error(t, err)

	var ferr *app.FatalError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "update", ferr.Phase)
	assert.Equal(t, uint64(1), ferr.Frame)
	assert.Contains(t, stderr, "kaput")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"negative frames", []string{"run", "--headless", "--frames", "-1"}, "invalid frame count"},
		{"missing script", []string{"run", "--headless", "--script", filepath.Join(os.TempDir(), "nightloop-missing.lua")}, "reading script"},
		{"unexpected argument", []string{"run", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "engine.log")

	_, stderr, err := execute(t, "run", "--headless", "--frames", "1", "--log-file", logPath)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "testbed ready")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "testbed ready")
}
