package wave

// Status is the lifecycle state of a Wave. It only ever moves from
// StatusRunning to one of the terminal states.
type Status int

const (
	StatusRunning Status = iota
	StatusDone
	StatusContradiction
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusContradiction:
		return "contradiction"
	}
	return "unknown"
}

// Terminal reports whether no further steps will change the wave.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusContradiction
}

// CellState is the externally visible state of one cell.
type CellState struct {
	Pattern int     // Pattern is the collapsed pattern, or -1
	Count   int     // Count of remaining possibilities
	Entropy float64 // Entropy of the remaining possibilities
}

// Collapsed reports whether the cell is fixed to a pattern.
func (c CellState) Collapsed() bool {
	return c.Pattern >= 0
}

// Snapshot is a point-in-time copy of a Wave, safe to keep after the wave
// moves on.
type Snapshot struct {
	Width     int
	Height    int
	Status    Status
	Steps     int
	Remaining int
	Cells     []CellState // row-major
}

// At returns the state at (x, y). It panics outside the grid.
func (s Snapshot) At(x, y int) CellState {
	return s.Cells[y*s.Width+x]
}

// Patterns returns the row-major pattern grid once every cell is collapsed.
func (s Snapshot) Patterns() ([]int, bool) {
	out := make([]int, len(s.Cells))
	for i, c := range s.Cells {
		if !c.Collapsed() {
			return nil, false
		}
		out[i] = c.Pattern
	}
	return out, true
}

// Progress returns the fraction of cells collapsed, in [0, 1].
func (s Snapshot) Progress() float64 {
	if len(s.Cells) == 0 {
		return 0
	}
	return float64(len(s.Cells)-s.Remaining) / float64(len(s.Cells))
}
