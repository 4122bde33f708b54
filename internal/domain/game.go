package domain

import (
	"errors"
	"fmt"
)

// Errors returned by domain operations. Occupied cells and finished games are
// not errors; see Result.
var (
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrInvalidStep  = errors.New("invalid step")
	ErrInvalidOrder = errors.New("invalid sort order")
)

// Result tells whether an action changed the game.
type Result uint8

const (
	Applied Result = iota
	RejectedOccupied
	RejectedGameOver
	RejectedInvalid
)

func (r Result) String() string {
	switch r {
	case RejectedOccupied:
		return "cell occupied"
	case RejectedGameOver:
		return "game over"
	case RejectedInvalid:
		return "invalid"
	default:
		return "applied"
	}
}

// SortOrder controls how the move list is presented.
type SortOrder uint8

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseSortOrder accepts "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("%w: %q", ErrInvalidOrder, s)
}

// Snapshot is one point in the game history.
type Snapshot struct {
	Board Board
	// LastMove is the 1-based index of the cell played to reach this
	// snapshot, 0 for the opening position.
	LastMove int
	Outcome  Outcome
}

func newSnapshot(b Board, lastMove int) Snapshot {
	return Snapshot{Board: b, LastMove: lastMove, Outcome: Evaluate(b)}
}

// State holds a game's history and the step currently displayed. A State is
// never modified in place: every transition returns a new value. Use New; the
// zero value has no history.
type State struct {
	history []Snapshot
	step    int
	order   SortOrder
}

// New returns a game with only the empty board in its history.
func New() State {
	return State{history: []Snapshot{newSnapshot(Board{}, 0)}}
}

// Step returns the index of the displayed snapshot.
func (s State) Step() int { return s.step }

// Len returns the number of snapshots in the history.
func (s State) Len() int { return len(s.history) }

// Order returns the move list sort order.
func (s State) Order() SortOrder { return s.order }

// History returns a copy of every snapshot.
func (s State) History() []Snapshot {
	return append([]Snapshot(nil), s.history...)
}

// Current returns the displayed snapshot.
func (s State) Current() Snapshot { return s.history[s.step] }

// Turn returns the player to move at the displayed step.
func (s State) Turn() Cell { return PlayerAt(s.step) }

// PlayerAt returns who moves from the given step: X on even steps, O on odd.
func PlayerAt(step int) Cell {
	if step%2 == 0 {
		return X
	}
	return O
}

// Play places the current player's mark at cell (0..8). Moves into an occupied
// cell or after a win leave the state unchanged and report why.
func (s State) Play(cell int) (State, Result, error) {
	if cell < 0 || cell >= len(Board{}) {
		return s, RejectedInvalid, fmt.Errorf("%w: cell %d", ErrOutOfBounds, cell)
	}
	cur := s.history[s.step]
	if cur.Outcome.Status == Win {
		return s, RejectedGameOver, nil
	}
	if cur.Board[cell] != Empty {
		return s, RejectedOccupied, nil
	}

	b := cur.Board
	b[cell] = s.Turn()

	history := make([]Snapshot, s.step+2)
	copy(history, s.history[:s.step+1])
	history[s.step+1] = newSnapshot(b, cell+1)

	return State{history: history, step: s.step + 1, order: s.order}, Applied, nil
}

// JumpTo moves the pointer to step without touching the history.
func (s State) JumpTo(step int) (State, error) {
	if step < 0 || step >= len(s.history) {
		return s, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidStep, step, len(s.history)-1)
	}
	s.step = step
	return s, nil
}

// SetSortOrder changes how View orders the move list.
func (s State) SetSortOrder(o SortOrder) (State, error) {
	if o != Ascending && o != Descending {
		return s, fmt.Errorf("%w: %d", ErrInvalidOrder, o)
	}
	s.order = o
	return s, nil
}

// Action is an input to Reduce.
type Action interface {
	apply(State) (State, Result, error)
}

// PlayAction places a mark.
type PlayAction struct{ Cell int }

// JumpAction moves through history.
type JumpAction struct{ Step int }

// SortAction changes the move list order.
type SortAction struct{ Order SortOrder }

func (a PlayAction) apply(s State) (State, Result, error) { return s.Play(a.Cell) }

func (a JumpAction) apply(s State) (State, Result, error) {
	return result(s.JumpTo(a.Step))
}

func (a SortAction) apply(s State) (State, Result, error) {
	return result(s.SetSortOrder(a.Order))
}

func result(s State, err error) (State, Result, error) {
	if err != nil {
		return s, RejectedInvalid, err
	}
	return s, Applied, nil
}

// Reduce applies a to s. Unless the result is Applied the returned state is s.
func Reduce(s State, a Action) (State, Result, error) {
	return a.apply(s)
}
