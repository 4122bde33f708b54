package domain

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Full reports whether no cell is Empty.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Line is a winning triple of cell indexes.
type Line [3]int

// Lines lists every winning triple. Evaluate walks them in this order and
// reports the first match.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Status is the coarse state of a board.
type Status uint8

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}

// Outcome is the result of evaluating a board. Winner and Line are only set
// when Status is Win.
type Outcome struct {
	Status Status
	Winner Cell
	Line   Line
}

// Over reports whether no further move can be made.
func (o Outcome) Over() bool { return o.Status != InProgress }

// Contains reports whether cell idx is part of the winning line.
func (o Outcome) Contains(idx int) bool {
	if o.Status != Win {
		return false
	}
	return o.Line[0] == idx || o.Line[1] == idx || o.Line[2] == idx
}

// Evaluate maps a board to its outcome.
func Evaluate(b Board) Outcome {
	for _, ln := range Lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return Outcome{Status: Win, Winner: a, Line: ln}
		}
	}
	if b.Full() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// RowCol converts a 1-based cell index into a 1-based row and column.
// Index 0 (no move) maps to 0, 0.
func RowCol(idx int) (row, col int) {
	if idx <= 0 {
		return 0, 0
	}
	row = (idx + 2) / 3
	col = idx % 3
	if col == 0 {
		col = 3
	}
	return row, col
}
