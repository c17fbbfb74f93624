package wave

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCollapse   = errors.New("pattern is not a remaining possibility of the cell")
	ErrInvalidArgument   = errors.New("invalid wave argument")
	ErrNotRunning        = errors.New("wave is not running")
	ErrAdjacencyViolated = errors.New("adjacent cells hold incompatible patterns")
)

// ContradictionError reports the cell whose possibility set was emptied.
// Inside the core it only travels from a propagation pass back to the Wave,
// which turns it into StatusContradiction.
type ContradictionError struct {
	X, Y int
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("contradiction at (%d, %d): no pattern remains possible", e.X, e.Y)
}
