package model

// Phase is the lifecycle stage of a single run of the game
type Phase string

const (
	PhaseIdle    Phase = "idle"    // No game started yet
	PhaseRunning Phase = "running" // Snake is moving
	PhaseOver    Phase = "over"    // Terminal condition reached
)

// EndReason records why a run ended
type EndReason string

const (
	EndReasonNone      EndReason = ""
	EndReasonWall      EndReason = "wall"       // Head left the grid
	EndReasonSelf      EndReason = "self"       // Head ran into the body
	EndReasonBoardFull EndReason = "board_full" // No free cell left for food
)

// GameState is the complete simulation state of one run
type GameState struct {
	Snake     []Cell    `json:"snake"` // Head first
	Food      Cell      `json:"food"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	Phase     Phase     `json:"phase"`
	EndReason EndReason `json:"end_reason,omitempty"`
}

// Head returns the first snake cell, or the zero Cell before a game starts
func (s GameState) Head() Cell {
	if len(s.Snake) == 0 {
		return Cell{}
	}
	return s.Snake[0]
}

// Occupies reports whether any snake cell equals c
func (s GameState) Occupies(c Cell) bool {
	for _, seg := range s.Snake {
		if seg == c {
			return true
		}
	}
	return false
}

// IsRunning reports whether the game accepts ticks and input
func (s GameState) IsRunning() bool {
	return s.Phase == PhaseRunning
}

// Clone returns a deep copy safe to hand to other goroutines
func (s GameState) Clone() GameState {
	out := s
	out.Snake = make([]Cell, len(s.Snake))
	copy(out.Snake, s.Snake)
	return out
}
