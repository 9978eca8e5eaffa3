package autopilot

import "github.com/mcoot/cybersnake/internal/model"

// Strategy defines how the autopilot steers the snake
type Strategy interface {
	// ChooseDirection selects the heading for the next tick
	ChooseDirection(state model.GameState, width, height int) model.Direction
}

// safeMoves returns the headings whose next cell is on the grid and off the
// snake. Reversing is never offered.
func safeMoves(state model.GameState, width, height int) []model.Direction {
	var moves []model.Direction
	for _, d := range model.Directions() {
		if d == state.Direction.Opposite() {
			continue
		}
		next := state.Head().Add(d)
		if !next.InBounds(width, height) || state.Occupies(next) {
			continue
		}
		moves = append(moves, d)
	}
	return moves
}
