package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to apply a sequence of moves that must all be accepted
func playMoves(t *testing.T, s State, cells ...int) State {
	t.Helper()
	for i, c := range cells {
		next, res, err := s.Play(c)
		require.NoError(t, err, "move %d (cell %d)", i, c)
		require.Equal(t, Applied, res, "move %d (cell %d)", i, c)
		s = next
	}
	return s
}

func TestNewGameInitialState(t *testing.T) {
	s := New()

	assert.Equal(t, 0, s.Step())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, X, s.Turn())
	assert.Equal(t, Ascending, s.Order())

	first := s.History()[0]
	assert.Equal(t, Board{}, first.Board)
	assert.Equal(t, 0, first.LastMove)
	assert.Equal(t, InProgress, first.Outcome.Status)
}

func TestPlay(t *testing.T) {
	t.Run("Places the mark and advances the pointer", func(t *testing.T) {
		// Given: a new game
		s := New()

		// When: X plays the centre
		next, res, err := s.Play(4)

		// Then: a snapshot is appended and O is to move
		require.NoError(t, err)
		assert.Equal(t, Applied, res)
		assert.Equal(t, 2, next.Len())
		assert.Equal(t, 1, next.Step())
		assert.Equal(t, X, next.Current().Board[4])
		assert.Equal(t, 5, next.Current().LastMove)
		assert.Equal(t, O, next.Turn())
	})

	t.Run("Does not modify the receiver", func(t *testing.T) {
		// Given: a game with one move
		s := playMoves(t, New(), 0)
		before := s.History()

		// When: another move is played from it
		_, _, err := s.Play(1)

		// Then: the receiver is untouched
		require.NoError(t, err)
		assert.Equal(t, before, s.History())
		assert.Equal(t, 1, s.Step())
	})

	t.Run("Occupied cell is a silent no-op", func(t *testing.T) {
		// Given: X holds cell 0
		s := playMoves(t, New(), 0)

		// When: O tries the same cell
		next, res, err := s.Play(0)

		// Then: nothing changes and no error is raised
		require.NoError(t, err)
		assert.Equal(t, RejectedOccupied, res)
		assert.Equal(t, s, next)
	})

	t.Run("Move after a win is a silent no-op", func(t *testing.T) {
		// Given: X completed the top row
		s := playMoves(t, New(), 0, 3, 1, 4, 2)
		require.Equal(t, Win, s.Current().Outcome.Status)

		// When: O plays an empty cell
		next, res, err := s.Play(8)

		// Then: nothing changes
		require.NoError(t, err)
		assert.Equal(t, RejectedGameOver, res)
		assert.Equal(t, s, next)
	})

	t.Run("Out of bounds fails fast", func(t *testing.T) {
		s := New()
		for _, c := range []int{-1, 9, 42} {
			next, res, err := s.Play(c)
			assert.ErrorIs(t, err, ErrOutOfBounds)
			assert.Equal(t, RejectedInvalid, res)
			assert.Equal(t, s, next)
		}
	})

	t.Run("Playing from an earlier step truncates the future", func(t *testing.T) {
		// Given: four moves, rewound to step 1
		s := playMoves(t, New(), 0, 1, 2, 3)
		s, err := s.JumpTo(1)
		require.NoError(t, err)

		// When: O plays somewhere new
		next, res, err := s.Play(8)

		// Then: len(history) == p+2, the pointer is p+1 and steps 2..4 are gone
		require.NoError(t, err)
		assert.Equal(t, Applied, res)
		assert.Equal(t, 3, next.Len())
		assert.Equal(t, 2, next.Step())
		assert.Equal(t, Board{X, Empty, Empty, Empty, Empty, Empty, Empty, Empty, O}, next.Current().Board)
		assert.Equal(t, s.History()[:2], next.History()[:2])
	})

	t.Run("Branching does not corrupt the discarded state", func(t *testing.T) {
		// Given: a game rewound to step 1 and kept around
		full := playMoves(t, New(), 0, 1, 2)
		rewound, err := full.JumpTo(1)
		require.NoError(t, err)

		// When: a new branch is played from it
		_ = playMoves(t, rewound, 5, 6)

		// Then: the full game still has its own future
		assert.Equal(t, 4, full.Len())
		assert.Equal(t, X, full.Current().Board[2])
	})
}

func TestTurnFollowsStepParity(t *testing.T) {
	s := playMoves(t, New(), 0, 1, 2, 3)
	for step := 0; step < s.Len(); step++ {
		jumped, err := s.JumpTo(step)
		require.NoError(t, err)
		if step%2 == 0 {
			assert.Equal(t, X, jumped.Turn(), "step %d", step)
		} else {
			assert.Equal(t, O, jumped.Turn(), "step %d", step)
		}
	}
}

func TestJumpTo(t *testing.T) {
	t.Run("Moves only the pointer", func(t *testing.T) {
		s := playMoves(t, New(), 0, 4, 8)

		jumped, err := s.JumpTo(1)

		require.NoError(t, err)
		assert.Equal(t, 1, jumped.Step())
		assert.Equal(t, s.History(), jumped.History())
		assert.Equal(t, Board{X}, jumped.Current().Board)
	})

	t.Run("Rejects steps outside the history", func(t *testing.T) {
		s := playMoves(t, New(), 0)
		for _, step := range []int{-1, 2, 10} {
			next, err := s.JumpTo(step)
			assert.ErrorIs(t, err, ErrInvalidStep)
			assert.Equal(t, s, next)
		}
	})
}

func TestSetSortOrder(t *testing.T) {
	s := playMoves(t, New(), 0, 1)

	desc, err := s.SetSortOrder(Descending)
	require.NoError(t, err)
	assert.Equal(t, Descending, desc.Order())
	assert.Equal(t, s.History(), desc.History())
	assert.Equal(t, Ascending, s.Order())

	_, err = s.SetSortOrder(SortOrder(7))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("asc")
	require.NoError(t, err)
	assert.Equal(t, Ascending, o)

	o, err = ParseSortOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)

	_, err = ParseSortOrder("sideways")
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestReduce(t *testing.T) {
	s := New()
	actions := []Action{
		PlayAction{Cell: 0},
		PlayAction{Cell: 4},
		PlayAction{Cell: 4},
		JumpAction{Step: 1},
		SortAction{Order: Descending},
		JumpAction{Step: 9},
	}
	want := []Result{Applied, Applied, RejectedOccupied, Applied, Applied, RejectedInvalid}

	for i, a := range actions {
		next, res, err := Reduce(s, a)
		assert.Equal(t, want[i], res, "action %d %#v", i, a)
		if res == RejectedInvalid {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
		if res != Applied {
			assert.Equal(t, s, next)
		}
		s = next
	}

	assert.Equal(t, 1, s.Step())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, Descending, s.Order())
}

func TestWinConditionsForX(t *testing.T) {
	// O fillers never complete a line of their own within two moves
	filler := []int{5, 7, 3, 6, 2, 1}
	for _, ln := range Lines {
		var seq []int
		var used []int
		for _, f := range filler {
			if f != ln[0] && f != ln[1] && f != ln[2] {
				used = append(used, f)
			}
			if len(used) == 2 {
				break
			}
		}
		seq = append(seq, ln[0], used[0], ln[1], used[1], ln[2])

		s := playMoves(t, New(), seq...)

		out := s.Current().Outcome
		assert.Equal(t, Win, out.Status, "line %v via %v", ln, seq)
		assert.Equal(t, X, out.Winner, "line %v via %v", ln, seq)
		assert.Equal(t, 5, s.Step())
	}
}

func TestScenarios(t *testing.T) {
	t.Run("X wins on the main diagonal", func(t *testing.T) {
		s := playMoves(t, New(), 0, 1, 4, 3, 8)

		out := s.View().Outcome
		assert.Equal(t, Outcome{Status: Win, Winner: X, Line: Line{0, 4, 8}}, out)
	})

	t.Run("Interleaved diagonal attempt lets O take the middle row", func(t *testing.T) {
		// X: 0,1 O: 4,3 X: 8 leaves X without a line
		s := playMoves(t, New(), 0, 4, 1, 3, 8)
		require.Equal(t, InProgress, s.View().Outcome.Status)

		s = playMoves(t, s, 5)

		assert.Equal(t, Outcome{Status: Win, Winner: O, Line: Line{3, 4, 5}}, s.View().Outcome)
	})

	t.Run("Replaying the same cell after a rewind starts a new branch", func(t *testing.T) {
		s := playMoves(t, New(), 0)
		s, err := s.JumpTo(0)
		require.NoError(t, err)

		next, res, err := s.Play(0)

		require.NoError(t, err)
		assert.Equal(t, Applied, res)
		assert.Equal(t, 2, next.Len())
		assert.Equal(t, 1, next.Step())
		assert.Equal(t, X, next.Current().Board[0])
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		s := playMoves(t, New(), 0, 1, 2, 4, 3, 5, 7, 6, 8)

		assert.Equal(t, Draw, s.View().Outcome.Status)
		assert.Equal(t, 9, s.Step())

		// every cell is taken so a further move is rejected as occupied
		_, res, err := s.Play(0)
		require.NoError(t, err)
		assert.Equal(t, RejectedOccupied, res)
	})
}
