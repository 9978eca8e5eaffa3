package autopilot

import (
	"github.com/mcoot/cybersnake/internal/dependencies/random"
	"github.com/mcoot/cybersnake/internal/model"
)

// RandomStrategy picks a random heading that does not lose immediately
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseDirection returns a random safe heading, or the current heading if
// every move is fatal
func (s *RandomStrategy) ChooseDirection(state model.GameState, width, height int) model.Direction {
	moves := safeMoves(state, width, height)
	if len(moves) == 0 {
		return state.Direction
	}
	return moves[s.random.Intn(len(moves))]
}
