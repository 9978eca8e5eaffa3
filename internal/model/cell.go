package model

import "fmt"

// Cell identifies a square on the playing grid
type Cell struct {
	X int `json:"x"` // 0-indexed from the left
	Y int `json:"y"` // 0-indexed from the top
}

// Add returns the cell one step away in the given direction
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// InBounds reports whether the cell lies inside a width x height grid
func (c Cell) InBounds(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a heading on the grid
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Directions lists every valid heading in a fixed order
func Directions() []Direction {
	return []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}
}

// Valid reports whether d is one of the four headings
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Opposite returns the reverse heading
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	}
	return d
}

// Delta returns the x/y offset of a single step. Y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	}
	return 0, 0
}

// ParseDirection converts user input such as "up" or "L" into a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "u", "U", "w":
		return DirectionUp, nil
	case "down", "d", "D", "s":
		return DirectionDown, nil
	case "left", "l", "L", "a":
		return DirectionLeft, nil
	case "right", "r", "R":
		return DirectionRight, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", ErrValidation, s)
}
