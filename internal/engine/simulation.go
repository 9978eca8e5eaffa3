package engine

import (
	"time"

	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/model"
)

// Config holds the grid and pacing settings of the simulation
type Config struct {
	Width        int
	Height       int
	TickInterval time.Duration
	FoodReward   int

	// FoodRetries bounds the random re-rolls before food placement falls
	// back to choosing among the enumerated free cells
	FoodRetries int
}

// DefaultConfig returns the classic 20x20 grid at 10 ticks per second
func DefaultConfig() Config {
	return Config{
		Width:        20,
		Height:       20,
		TickInterval: 100 * time.Millisecond,
		FoodReward:   10,
		FoodRetries:  64,
	}
}

// WithDefaults fills zero fields from DefaultConfig
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.FoodReward <= 0 {
		c.FoodReward = d.FoodReward
	}
	if c.FoodRetries <= 0 {
		c.FoodRetries = d.FoodRetries
	}
	return c
}

// StartSnake is the fixed opening position, head first, moving right
func StartSnake() []model.Cell {
	return []model.Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
}

// StepOutcome describes what happened during one tick
type StepOutcome struct {
	Ate  bool
	Over bool
}

// NewState builds a fresh running game with food placed
func NewState(cfg Config, rng random.Random) model.GameState {
	state := model.GameState{
		Snake:     StartSnake(),
		Direction: model.DirectionRight,
		Phase:     model.PhaseRunning,
	}
	food, ok := PlaceFood(state.Snake, cfg, rng)
	if !ok {
		state.Phase = model.PhaseOver
		state.EndReason = model.EndReasonBoardFull
		return state
	}
	state.Food = food
	return state
}

// Step advances a running state by one cell in its current direction.
// The input state is never modified.
func Step(state model.GameState, cfg Config, rng random.Random) (model.GameState, StepOutcome) {
	if !state.IsRunning() {
		return state, StepOutcome{}
	}

	next := state.Clone()
	head := next.Head().Add(next.Direction)

	if !head.InBounds(cfg.Width, cfg.Height) {
		return finish(next, model.EndReasonWall), StepOutcome{Over: true}
	}
	// The tail cell counts: it has not moved out of the way yet
	if next.Occupies(head) {
		return finish(next, model.EndReasonSelf), StepOutcome{Over: true}
	}

	ate := head == next.Food
	body := next.Snake
	if !ate {
		body = body[:len(body)-1]
	}
	next.Snake = append([]model.Cell{head}, body...)

	if !ate {
		return next, StepOutcome{}
	}

	next.Score += cfg.FoodReward
	food, ok := PlaceFood(next.Snake, cfg, rng)
	if !ok {
		return finish(next, model.EndReasonBoardFull), StepOutcome{Ate: true, Over: true}
	}
	next.Food = food
	return next, StepOutcome{Ate: true}
}

func finish(state model.GameState, reason model.EndReason) model.GameState {
	state.Phase = model.PhaseOver
	state.EndReason = reason
	return state
}

// PlaceFood picks a uniformly random cell not covered by the snake.
// It reports false only when the snake covers the whole grid.
func PlaceFood(snake []model.Cell, cfg Config, rng random.Random) (model.Cell, bool) {
	occupied := make(map[model.Cell]struct{}, len(snake))
	for _, c := range snake {
		occupied[c] = struct{}{}
	}

	free := cfg.Width*cfg.Height - len(occupied)
	if free <= 0 {
		return model.Cell{}, false
	}

	for range cfg.FoodRetries {
		c := model.Cell{X: rng.Intn(cfg.Width), Y: rng.Intn(cfg.Height)}
		if _, taken := occupied[c]; !taken {
			return c, true
		}
	}

	n := rng.Intn(free)
	for y := range cfg.Height {
		for x := range cfg.Width {
			c := model.Cell{X: x, Y: y}
			if _, taken := occupied[c]; taken {
				continue
			}
			if n == 0 {
				return c, true
			}
			n--
		}
	}
	return model.Cell{}, false
}
