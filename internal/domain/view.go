package domain

import "fmt"

// Move is one entry of the move list.
type Move struct {
	Step int
	// Player made the move that produced this step; Empty for step 0.
	Player  Cell
	Row     int
	Col     int
	Current bool
}

// Label is the text shown for a move list entry.
func (m Move) Label() string {
	if m.Step == 0 {
		return "Go to game start"
	}
	return fmt.Sprintf("Go to move #%d (row %d, col %d)", m.Step, m.Row, m.Col)
}

// View is a read-only rendering of a State.
type View struct {
	Step    int
	Board   Board
	Outcome Outcome
	Next    Cell
	Order   SortOrder
	Moves   []Move
}

// View derives the rendering of the displayed step.
func (s State) View() View {
	cur := s.history[s.step]
	v := View{
		Step:    s.step,
		Board:   cur.Board,
		Outcome: cur.Outcome,
		Next:    s.Turn(),
		Order:   s.order,
		Moves:   make([]Move, len(s.history)),
	}
	for i, snap := range s.history {
		m := Move{Step: i, Current: i == s.step}
		m.Row, m.Col = RowCol(snap.LastMove)
		if i > 0 {
			m.Player = PlayerAt(i - 1)
		}
		if s.order == Descending {
			v.Moves[len(s.history)-1-i] = m
		} else {
			v.Moves[i] = m
		}
	}
	return v
}

// StatusText is the one-line game status.
func (v View) StatusText() string {
	switch v.Outcome.Status {
	case Win:
		return "Winner: " + v.Outcome.Winner.String()
	case Draw:
		return "Draw"
	default:
		return "Next player: " + v.Next.String()
	}
}
