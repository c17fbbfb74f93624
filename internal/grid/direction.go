package grid

// Direction names one of the four orthogonal neighbours of a cell.
type Direction uint8

// Directions are ordered clockwise starting at Up.
const (
	Up Direction = iota
	Right
	Down
	Left
)

// DirectionCount is the number of neighbour directions of a cell.
const DirectionCount = 4

// Directions lists every direction in clockwise order.
var Directions = [DirectionCount]Direction{Up, Right, Down, Left}

// Opposite returns the direction pointing back to the origin.
func (d Direction) Opposite() Direction {
	return (d + 2) % DirectionCount
}

// Offset returns the coordinate delta of one step in d. y grows downward.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Bit returns a mask with only d's bit set.
func (d Direction) Bit() uint8 {
	return 1 << d
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d < DirectionCount
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "invalid"
}
