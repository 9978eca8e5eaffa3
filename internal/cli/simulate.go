package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/engine"
	"github.com/mcoot/cybersnake/internal/services/autopilot"
)

// minBoardSize fits the opening snake
const minBoardSize = 6

func newSimulateCmd() *cobra.Command {
	var strategy string
	var seed uint64
	var width, height int
	var submit bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a game with an autopilot strategy and report the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < minBoardSize || height < minBoardSize {
				return fmt.Errorf("board must be at least %dx%d", minBoardSize, minBoardSize)
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			rnd := random.NewSeeded(seed)
			service := autopilot.NewService(autopilot.DefaultStrategies(rnd), newLogger(cmd))

			gameCfg := engine.DefaultConfig()
			gameCfg.Width = width
			gameCfg.Height = height

			result, err := service.Simulate(strategy, gameCfg, rnd)
			if err != nil {
				return err
			}
			out := SimulateResult{Strategy: strategy, Seed: seed, Result: result}

			if submit {
				cred, err := resolveCredential("", "")
				if err != nil {
					return err
				}
				entry, err := apiClient.SubmitScore(cmd.Context(), cred.Name, cred.Password, result.Score)
				if err != nil {
					return fmt.Errorf("failed to submit: %w", err)
				}
				out.Submitted = &entry
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", autopilot.StrategyGreedy, "Autopilot strategy: greedy, random")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: time based)")
	cmd.Flags().IntVar(&width, "width", engine.DefaultConfig().Width, "Board width")
	cmd.Flags().IntVar(&height, "height", engine.DefaultConfig().Height, "Board height")
	cmd.Flags().BoolVar(&submit, "submit", false, "Submit the score with the saved credentials")

	return cmd
}

// newLogger logs to stderr when --verbose is set
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
