package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRequiresStart(t *testing.T) {
	g := NewGame()
	assert.Equal(t, StatusPaused, g.Status)

	_, err := g.Play(3)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestGameAlternatesTurns(t *testing.T) {
	g := NewGame()
	g.Start()
	require.Equal(t, PlayerA, g.Turn)

	result, err := g.Play(3)
	require.NoError(t, err)
	assert.Equal(t, Continue, result)
	assert.Equal(t, PlayerB, g.Turn)

	_, err = g.Play(3)
	require.NoError(t, err)
	assert.Equal(t, PlayerA, g.Turn)
	assert.Equal(t, PlayerB, g.Board.At(3, Height-2))
}

func TestGameWin(t *testing.T) {
	// red stacks column 0, blue answers in column 1
	g, err := Restore([]int{0, 1, 0, 1, 0, 1})
	require.NoError(t, err)

	result, err := g.Play(0)
	require.NoError(t, err)
	assert.Equal(t, Win, result)
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, PlayerA, g.Winner)
	assert.True(t, g.IsFinished())
	assert.Equal(t, "Red Wins!", g.Outcome())

	_, err = g.Play(2)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestGameBlueWin(t *testing.T) {
	g, err := Restore([]int{6, 0, 5, 0, 6, 0, 5})
	require.NoError(t, err)

	_, err = g.Play(0)
	require.NoError(t, err)
	assert.Equal(t, PlayerB, g.Winner)
	assert.Equal(t, "Blue Wins!", g.Outcome())
}

func TestGameDraw(t *testing.T) {
	g, err := Restore(drawSequence[:len(drawSequence)-1])
	require.NoError(t, err)
	assert.Equal(t, "", g.Outcome())

	result, err := g.Play(drawSequence[len(drawSequence)-1])
	require.NoError(t, err)
	assert.Equal(t, Draw, result)
	assert.Equal(t, StatusDraw, g.Status)
	assert.Equal(t, Empty, g.Winner)
	assert.Equal(t, "It's a draw.", g.Outcome())
}

func TestGameIllegalMoveKeepsTurn(t *testing.T) {
	g, err := Restore([]int{0, 0, 0, 0, 0, 0})
	require.NoError(t, err)

	_, err = g.Play(0)
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.Equal(t, PlayerA, g.Turn)
	assert.Equal(t, StatusTurn, g.Status)
}

func TestGameUndoReopensFinishedGame(t *testing.T) {
	g, err := Restore([]int{0, 1, 0, 1, 0, 1, 0})
	require.NoError(t, err)
	require.True(t, g.IsFinished())

	require.NoError(t, g.Undo())
	assert.Equal(t, StatusTurn, g.Status)
	assert.Equal(t, PlayerA, g.Turn)
	assert.Equal(t, Empty, g.Winner)
	assert.Equal(t, 6, g.Board.MoveCount())

	fresh := NewGame()
	fresh.Start()
	assert.ErrorIs(t, fresh.Undo(), ErrEmptyHistory)
}
