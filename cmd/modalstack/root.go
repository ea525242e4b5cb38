package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/app"
	"github.com/riordanpawley/modalstack/internal/config"
	"github.com/riordanpawley/modalstack/internal/telemetry"
	"github.com/riordanpawley/modalstack/internal/ui/overlay"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logFile    string
	mouse      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "modalstack",
		Short:         "Stack dialogs, drawers and confirms over a terminal screen",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: .modalstack.{json,yaml} in the current directory)")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().BoolVar(&flags.mouse, "mouse", true, "Enable mouse support")

	cmd.AddCommand(newInitCmd())

	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".modalstack.json"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func run(ctx context.Context, flags *rootFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log, flags.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	tp, err := telemetry.New(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	opts := append(app.OverlayOptions(cfg),
		overlay.WithLogger(logger),
		overlay.WithTracer(tp.Tracer()),
		overlay.WithContext(ctx),
	)
	manager := overlay.NewManager(opts...)
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Warn("overlay callbacks failed on close", "error", err)
		}
	}()

	// the program needs the model and the portal needs the program
	var program atomic.Pointer[tea.Program]
	portal, err := manager.Mount(overlay.WithSender(func(msg tea.Msg) {
		if p := program.Load(); p != nil {
			p.Send(msg)
		}
	}))
	if err != nil {
		return err
	}
	defer portal.Unmount()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if flags.mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(app.New(cfg, manager, portal, logger), programOpts...)
	program.Store(p)

	logger.Info("starting", "telemetry", tp.Enabled())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// loadConfig reads an explicit config file, or looks for one in the
// current directory
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger builds a text logger. The TUI owns the terminal, so without a
// log file everything is discarded.
func newLogger(cfg config.LogConfig, fileFlag string) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	path := cfg.File
	if fileFlag != "" {
		path = fileFlag
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}
