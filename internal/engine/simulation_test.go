package engine

import (
	"testing"

	"github.com/mcoot/cybersnake/internal/dependencies/mocks"
	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return cfg
}

func running(dir model.Direction, food model.Cell, snake ...model.Cell) model.GameState {
	return model.GameState{
		Snake:     snake,
		Food:      food,
		Direction: dir,
		Phase:     model.PhaseRunning,
	}
}

func TestNewStateOpensAtFixedPosition(t *testing.T) {
	rng := mocks.NewMockRandom()
	rng.QueueIntn(10, 12)

	state := NewState(DefaultConfig(), rng)

	assert.Equal(t, StartSnake(), state.Snake)
	assert.Equal(t, model.DirectionRight, state.Direction)
	assert.Equal(t, model.PhaseRunning, state.Phase)
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, model.Cell{X: 10, Y: 12}, state.Food)
}

func TestStepMovesHeadAndDropsTail(t *testing.T) {
	state := running(model.DirectionRight, model.Cell{X: 0, Y: 0}, StartSnake()...)

	next, outcome := Step(state, DefaultConfig(), mocks.NewMockRandom())

	assert.False(t, outcome.Ate)
	assert.False(t, outcome.Over)
	assert.Equal(t, []model.Cell{{X: 6, Y: 5}, {X: 5, Y: 5}, {X: 4, Y: 5}}, next.Snake)
	// input untouched
	assert.Equal(t, StartSnake(), state.Snake)
}

func TestStepEatingGrowsAndScores(t *testing.T) {
	rng := mocks.NewMockRandom()
	rng.QueueIntn(15, 15)
	state := running(model.DirectionRight, model.Cell{X: 6, Y: 5}, StartSnake()...)

	next, outcome := Step(state, DefaultConfig(), rng)

	assert.True(t, outcome.Ate)
	assert.False(t, outcome.Over)
	assert.Equal(t, 10, next.Score)
	assert.Len(t, next.Snake, 4)
	assert.Equal(t, model.Cell{X: 6, Y: 5}, next.Head())
	assert.Equal(t, model.Cell{X: 15, Y: 15}, next.Food)
}

func TestStepWallCollisionEndsGame(t *testing.T) {
	cfg := testConfig(8, 8)
	state := running(model.DirectionRight, model.Cell{X: 0, Y: 0},
		model.Cell{X: 7, Y: 3}, model.Cell{X: 6, Y: 3}, model.Cell{X: 5, Y: 3})

	next, outcome := Step(state, cfg, mocks.NewMockRandom())

	assert.True(t, outcome.Over)
	assert.Equal(t, model.PhaseOver, next.Phase)
	assert.Equal(t, model.EndReasonWall, next.EndReason)
	assert.Equal(t, state.Snake, next.Snake)
}

func TestStepSelfCollisionIncludesTail(t *testing.T) {
	// A 2x2 loop: the head moves into the cell the tail still occupies
	state := running(model.DirectionDown, model.Cell{X: 0, Y: 0},
		model.Cell{X: 5, Y: 4}, model.Cell{X: 6, Y: 4}, model.Cell{X: 6, Y: 5}, model.Cell{X: 5, Y: 5})

	next, outcome := Step(state, DefaultConfig(), mocks.NewMockRandom())

	assert.True(t, outcome.Over)
	assert.Equal(t, model.EndReasonSelf, next.EndReason)
}

func TestStepIgnoresFinishedGame(t *testing.T) {
	state := running(model.DirectionRight, model.Cell{X: 0, Y: 0}, StartSnake()...)
	state.Phase = model.PhaseOver

	next, outcome := Step(state, DefaultConfig(), mocks.NewMockRandom())

	assert.Equal(t, StepOutcome{}, outcome)
	assert.Equal(t, state, next)
}

func TestStepFillingBoardEndsGame(t *testing.T) {
	cfg := testConfig(2, 2)
	state := running(model.DirectionUp, model.Cell{X: 0, Y: 0},
		model.Cell{X: 0, Y: 1}, model.Cell{X: 1, Y: 1}, model.Cell{X: 1, Y: 0})

	next, outcome := Step(state, cfg, mocks.NewMockRandom())

	assert.True(t, outcome.Ate)
	assert.True(t, outcome.Over)
	assert.Equal(t, model.EndReasonBoardFull, next.EndReason)
	assert.Equal(t, 10, next.Score)
	assert.Len(t, next.Snake, 4)
}

func TestPlaceFoodFallsBackToFreeCell(t *testing.T) {
	cfg := testConfig(2, 2)
	snake := []model.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	// the mock keeps answering 0, which always lands on the snake
	food, ok := PlaceFood(snake, cfg, mocks.NewMockRandom())

	require.True(t, ok)
	assert.Equal(t, model.Cell{X: 1, Y: 1}, food)
}

func TestPlaceFoodReportsFullBoard(t *testing.T) {
	cfg := testConfig(2, 1)
	_, ok := PlaceFood([]model.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}}, cfg, mocks.NewMockRandom())
	assert.False(t, ok)
}

func TestRandomWalkKeepsInvariants(t *testing.T) {
	cfg := testConfig(12, 12)
	for seed := uint64(1); seed <= 20; seed++ {
		rng := random.NewSeeded(seed)
		state := NewState(cfg, rng)
		prevScore := 0

		for i := 0; i < 500 && state.IsRunning(); i++ {
			dir := model.Directions()[rng.Intn(4)]
			if dir != state.Direction.Opposite() {
				state.Direction = dir
			}
			prevLen := len(state.Snake)

			var outcome StepOutcome
			state, outcome = Step(state, cfg, rng)
			if outcome.Over && !outcome.Ate {
				assert.Len(t, state.Snake, prevLen, "seed %d", seed)
				break
			}

			seen := map[model.Cell]bool{}
			for _, c := range state.Snake {
				require.True(t, c.InBounds(cfg.Width, cfg.Height), "seed %d out of bounds %s", seed, c)
				require.False(t, seen[c], "seed %d duplicate cell %s", seed, c)
				seen[c] = true
			}
			if state.IsRunning() {
				require.False(t, state.Occupies(state.Food), "seed %d food on snake", seed)
			}
			require.GreaterOrEqual(t, state.Score, prevScore)
			require.Zero(t, state.Score%cfg.FoodReward)
			if outcome.Ate {
				require.Len(t, state.Snake, prevLen+1)
			} else {
				require.Len(t, state.Snake, prevLen)
			}
			prevScore = state.Score
		}
	}
}
