package autopilot

import "github.com/mcoot/cybersnake/internal/model"

// GreedyStrategy heads for the food along the shortest Manhattan path,
// skipping moves that would box the snake into a region smaller than itself
type GreedyStrategy struct{}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// ChooseDirection returns the roomy safe move closest to the food. The
// current heading wins ties.
func (s *GreedyStrategy) ChooseDirection(state model.GameState, width, height int) model.Direction {
	moves := safeMoves(state, width, height)
	if len(moves) == 0 {
		return state.Direction
	}

	best := moves[0]
	bestRoomy := false
	bestDist := -1
	for _, d := range moves {
		next := state.Head().Add(d)
		roomy := reachable(state, next, width, height) >= len(state.Snake)
		dist := manhattan(next, state.Food)

		better := bestDist < 0 ||
			(roomy && !bestRoomy) ||
			(roomy == bestRoomy && dist < bestDist) ||
			(roomy == bestRoomy && dist == bestDist && d == state.Direction)
		if better {
			best, bestRoomy, bestDist = d, roomy, dist
		}
	}
	return best
}

func manhattan(a, b model.Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// reachable counts free cells connected to start once the head has moved
// there. The tail cell is treated as freed.
func reachable(state model.GameState, start model.Cell, width, height int) int {
	blocked := make(map[model.Cell]bool, len(state.Snake))
	for _, c := range state.Snake[:len(state.Snake)-1] {
		blocked[c] = true
	}
	blocked[start] = true

	seen := map[model.Cell]bool{start: true}
	queue := []model.Cell{start}
	count := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range model.Directions() {
			n := cur.Add(d)
			if !n.InBounds(width, height) || blocked[n] || seen[n] {
				continue
			}
			seen[n] = true
			count++
			queue = append(queue, n)
		}
	}
	return count
}
