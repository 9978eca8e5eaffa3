package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/mcoot/cybersnake/internal/dependencies/clock"
	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/engine"
	"github.com/mcoot/cybersnake/internal/services/autopilot"
	"github.com/mcoot/cybersnake/internal/session"
	"github.com/mcoot/cybersnake/internal/tui"
)

func newPlayCmd() *cobra.Command {
	var strategy, logFile string
	var mute bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := openLogFile(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			clk := clock.New()
			rnd := random.New()

			var pilot autopilot.Strategy
			if strategy != "" {
				pilot, err = autopilot.NewService(autopilot.DefaultStrategies(rnd), logger).Strategy(strategy)
				if err != nil {
					return err
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			defer screen.Fini()

			var sounds tui.Sounds = tui.Silent{}
			if !mute {
				sounds = tui.NewSounds(logger)
			}

			eng := engine.New(engine.DefaultConfig(), clk, rnd, logger)
			ctrl := session.New(apiClient, eng, cfg.Credentials(), clk, logger, session.DefaultConfig())
			defer ctrl.Close()

			app := tui.New(screen, eng, ctrl, logger, tui.Config{
				Autopilot: pilot,
				Sounds:    sounds,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := ctrl.Resume(); err != nil {
				logger.Warn("failed to load saved credentials", slog.Any("error", err))
			}
			go func() {
				if err := ctrl.RefreshLeaderboard(ctx); err != nil {
					logger.Warn("failed to load leaderboard", slog.Any("error", err))
				}
			}()

			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&strategy, "autopilot", "", "Let a strategy steer: greedy, random")
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable sound")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write debug logs to this file")

	return cmd
}

// openLogFile returns a logger writing JSON to path, or discarding when
// path is empty. The terminal is owned by the game while it runs.
func openLogFile(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
