package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/nightloop/internal/app"
	"github.com/dshills/nightloop/internal/config"
	"github.com/dshills/nightloop/internal/logging"
	"github.com/dshills/nightloop/internal/platform"
	"github.com/dshills/nightloop/internal/script"
	"github.com/dshills/nightloop/internal/testbed"
)

// RunOptions holds the run command flags.
type RunOptions struct {
	*RootOptions
	Script   string
	Headless bool
	Frames   int
	LogFile  string
}

// NewRunCommand creates the run command.
func NewRunCommand(root *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a game",
		Long: `Run the game script given by --script or the config file, or the
built-in testbed when there is none. Esc or Ctrl+C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Script, "script", "s", "", "Lua game script")
	cmd.Flags().BoolVar(&opts.Headless, "headless", false, "run without a terminal")
	cmd.Flags().IntVarP(&opts.Frames, "frames", "n", 0, "stop after this many frames (0 runs until quit)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file")

	return cmd
}

func (o *RunOptions) run(cmd *cobra.Command) error {
	if o.Frames < 0 {
		return fmt.Errorf("invalid frame count %d", o.Frames)
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if o.Script != "" {
		cfg.Script.Path = o.Script
	}
	if o.Headless {
		cfg.Platform.Backend = config.BackendHeadless
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	out, flush, err := o.logOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer flush()
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: out,
		Prefix: "nightloop",
		Color:  cfg.Log.Color,
	})

	game, err := loadGame(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithPlatform(newPlatform(cfg, logger)),
		app.WithBudget(cfg.Memory.Budget.Bytes()),
		app.WithValidation(cfg.Memory.Validation),
		app.WithContext(ctx),
		app.WithFrameLimit(uint64(o.Frames)),
		app.WithPinnedLogLevel(o.LogLevel != ""),
	}
	if o.ConfigPath != "" {
		opts = append(opts, app.WithConfigFile(o.ConfigPath))
	}

	a := app.New(game, opts...)
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Run(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", game.Name, a.Metrics())
	return nil
}

// logOutput picks where logs go. The terminal backend owns the screen, so
// without a log file its logs are held back and written to stderr once the
// screen is closed.
func (o *RunOptions) logOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func(), error) {
	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.Platform.Backend != config.BackendTerminal {
		return cmd.ErrOrStderr(), func() {}, nil
	}
	var buf bytes.Buffer
	return &buf, func() { buf.WriteTo(cmd.ErrOrStderr()) }, nil
}

// loadGame loads the configured script, or the testbed sized by the window
// settings.
func loadGame(cfg *config.Config, logger *logging.Logger) (*app.Game, error) {
	if cfg.Script.Path != "" {
		return script.Load(cfg.Script.Path, script.WithLogger(logger))
	}
	game := testbed.New()
	game.Name = cfg.Window.Name
	game.Width = cfg.Window.Width
	game.Height = cfg.Window.Height
	return game, nil
}

// newPlatform creates the configured backend.
func newPlatform(cfg *config.Config, logger *logging.Logger) platform.Platform {
	if cfg.Platform.Backend == config.BackendHeadless {
		return platform.NewHeadless(platform.WithHeadlessLogger(logger))
	}
	return platform.NewTerminal(
		platform.WithReleaseAfter(cfg.Input.ReleaseAfter.Std()),
		platform.WithTerminalLogger(logger),
	)
}
