package autopilot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/engine"
	"github.com/mcoot/cybersnake/internal/model"
)

const (
	StrategyRandom = "random"
	StrategyGreedy = "greedy"

	// MaxSimulationTicks is a safety limit for Simulate
	MaxSimulationTicks = 100000
)

// Steerer is the part of the engine the autopilot drives
type Steerer interface {
	SetDirection(d model.Direction) bool
}

// Result summarises one simulated run
type Result struct {
	Score     int             `json:"score"`
	Length    int             `json:"length"`
	Ticks     int             `json:"ticks"`
	EndReason model.EndReason `json:"end_reason"`
}

// Service picks moves for unattended play
type Service struct {
	strategies map[string]Strategy
	logger     *slog.Logger
}

// NewService creates an autopilot Service with the given named strategies
func NewService(strategies map[string]Strategy, logger *slog.Logger) *Service {
	return &Service{
		strategies: strategies,
		logger:     logger.With(slog.String("component", "autopilot")),
	}
}

// DefaultStrategies returns the built-in strategies keyed by name
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		StrategyRandom: NewRandomStrategy(rnd),
		StrategyGreedy: NewGreedyStrategy(),
	}
}

// Names lists the registered strategy names in sorted order
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strategy looks up a strategy by name
func (s *Service) Strategy(name string) (Strategy, error) {
	st, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown autopilot strategy %q", model.ErrValidation, name)
	}
	return st, nil
}

// Steer asks the strategy for a heading and hands it to the engine. It is
// meant to be called from the engine's tick listener.
func Steer(target Steerer, st Strategy, state model.GameState, cfg engine.Config) {
	if !state.IsRunning() {
		return
	}
	d := st.ChooseDirection(state, cfg.Width, cfg.Height)
	if d != state.Direction {
		target.SetDirection(d)
	}
}

// Simulate plays a whole game with the named strategy, without a ticker
func (s *Service) Simulate(name string, cfg engine.Config, rnd random.Random) (*Result, error) {
	st, err := s.Strategy(name)
	if err != nil {
		return nil, err
	}

	cfg = cfg.WithDefaults()
	state := engine.NewState(cfg, rnd)
	ticks := 0
	for state.IsRunning() && ticks < MaxSimulationTicks {
		d := st.ChooseDirection(state, cfg.Width, cfg.Height)
		if d.Valid() && d != state.Direction.Opposite() {
			state.Direction = d
		}
		state, _ = engine.Step(state, cfg, rnd)
		ticks++
	}

	result := &Result{
		Score:     state.Score,
		Length:    len(state.Snake),
		Ticks:     ticks,
		EndReason: state.EndReason,
	}

	s.logger.Debug("simulation finished",
		slog.String("strategy", name),
		slog.Int("score", result.Score),
		slog.Int("ticks", result.Ticks),
		slog.String("reason", string(result.EndReason)),
	)

	return result, nil
}
