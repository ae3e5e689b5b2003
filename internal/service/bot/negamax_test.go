package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

// boardFrom plays columns alternately, PlayerA first.
func boardFrom(t *testing.T, columns ...int) *domain.Board {
	t.Helper()
	b := domain.NewBoard()
	require.NoError(t, b.Replay(columns, domain.PlayerA))
	return b
}

func place(t *testing.T, b *domain.Board, token domain.Token, columns ...int) {
	t.Helper()
	for _, col := range columns {
		require.NoError(t, b.ApplyMove(domain.NewMove(col, token)))
	}
}

func TestEvalPosition(t *testing.T) {
	b := domain.NewBoard()
	assert.Zero(t, EvalPosition(b, domain.PlayerA))

	place(t, b, domain.PlayerA, 3)
	place(t, b, domain.PlayerB, 3)
	place(t, b, domain.PlayerA, 2)
	place(t, b, domain.PlayerB, 0)

	assert.InDelta(t, 0.8, EvalPosition(b, domain.PlayerA), 1e-9)
	assert.InDelta(t, -0.8, EvalPosition(b, domain.PlayerB), 1e-9)
}

func TestEvalPositionIgnoresEdgesAndTop(t *testing.T) {
	b := domain.NewBoard()
	place(t, b, domain.PlayerB, 6, 6, 6, 6, 6)
	place(t, b, domain.PlayerA, 6)

	// column 6 weights bottom to top: 0.2, 0.1, 0, 0, 0, 0
	assert.InDelta(t, -0.3, EvalPosition(b, domain.PlayerA), 1e-9)
}

func TestChooseMoveEmptyBoardPlaysCenter(t *testing.T) {
	b := domain.NewBoard()
	s := NewSearcher(b)

	assert.Equal(t, 3, s.ChooseMove(domain.PlayerA))
	assert.Equal(t, 0, b.MoveCount())
	assert.Equal(t, [domain.Height][domain.Width]domain.Token{}, b.Grid())
	assert.Positive(t, s.Stats().Nodes)
}

func TestChooseMoveTakesImmediateWin(t *testing.T) {
	b := domain.NewBoard()
	place(t, b, domain.PlayerA, 1, 2, 3)

	s := NewSearcher(b)
	col := s.ChooseMove(domain.PlayerA)

	// both ends complete the line; the scan runs left to right
	assert.Contains(t, []int{0, 4}, col)
	assert.Equal(t, 0, col)
	assert.Zero(t, s.Stats().Nodes, "no search should run when a win is available")
	assert.Equal(t, 3, b.MoveCount())
}

func TestChooseMoveBlocksOpponent(t *testing.T) {
	b := domain.NewBoard()
	place(t, b, domain.PlayerB, 0, 1, 2)
	place(t, b, domain.PlayerA, 6, 6, 5)

	grid, history := b.Grid(), b.History()
	assert.Equal(t, 3, NewSearcher(b).ChooseMove(domain.PlayerA))
	assert.Equal(t, grid, b.Grid())
	assert.Equal(t, history, b.History())
}

func TestChooseMoveLeavesBoardUntouched(t *testing.T) {
	b := boardFrom(t, 3, 3, 4, 2, 2, 4, 1)
	grid, history := b.Grid(), b.History()

	s := NewSearcher(b, WithDepth(5))
	col := s.ChooseMove(domain.PlayerB)

	assert.True(t, b.ValidateMove(domain.NewMove(col, domain.PlayerB)))
	assert.Equal(t, grid, b.Grid())
	assert.Equal(t, history, b.History())
}

func TestChooseMoveSkipsFullColumns(t *testing.T) {
	b := domain.NewBoard()
	place(t, b, domain.PlayerA, 3, 3, 3)
	place(t, b, domain.PlayerB, 3, 3, 3)

	col := NewSearcher(b, WithDepth(3)).ChooseMove(domain.PlayerA)
	assert.NotEqual(t, 3, col)
}

func TestNegamaxSymmetry(t *testing.T) {
	positions := [][]int{
		{2},
		{4, 4, 1, 2},
		{5, 4, 0, 4, 0, 6, 3, 2},
	}

	for _, cols := range positions {
		b := boardFrom(t, cols...)
		s := NewSearcher(b)
		for _, depth := range []int{0, 2} {
			a := s.Negamax(domain.PlayerA, depth, -scoreInfinity, scoreInfinity)
			bl := s.Negamax(domain.PlayerB, depth, -scoreInfinity, scoreInfinity)
			assert.InDelta(t, a, -bl, 1e-9, "position %v depth %d", cols, depth)
		}
		assert.Equal(t, len(cols), b.MoveCount())
	}
}

func TestNegamaxImmediateWinScore(t *testing.T) {
	b := domain.NewBoard()
	place(t, b, domain.PlayerA, 0, 0, 0)
	place(t, b, domain.PlayerB, 1, 2)

	score := NewSearcher(b).Negamax(domain.PlayerA, 3, -scoreInfinity, scoreInfinity)
	assert.Equal(t, float64(domain.TotalCells-6)/2, score)
}

func TestNegamaxDrawScoresZero(t *testing.T) {
	draw := []int{
		4, 3, 6, 0, 1, 4, 5, 5, 1, 1, 5, 0, 1, 6, 0, 1, 5, 5, 1, 0, 4,
		6, 3, 2, 6, 6, 0, 4, 6, 5, 2, 0, 4, 2, 4, 2, 2, 2, 3, 3, 3, 3,
	}
	b := boardFrom(t, draw...)

	assert.Zero(t, NewSearcher(b).Negamax(domain.PlayerA, 4, -scoreInfinity, scoreInfinity))
}

func TestNegamaxEmptyWindowReturnsBeta(t *testing.T) {
	b := boardFrom(t, 3)
	s := NewSearcher(b)

	bound := winScore(b.MoveCount())
	score := s.Negamax(domain.PlayerB, 4, bound, scoreInfinity)
	assert.Equal(t, bound, score)
	assert.Equal(t, 1, s.Stats().Nodes)
}

func TestWithDepth(t *testing.T) {
	b := domain.NewBoard()
	assert.Equal(t, SearchDepth, NewSearcher(b).Depth())
	assert.Equal(t, 3, NewSearcher(b, WithDepth(3)).Depth())
	assert.Equal(t, SearchDepth, NewSearcher(b, WithDepth(0)).Depth())
}
