package domain

import "fmt"

// Token is the value stored in a grid cell. The two player tokens are
// signed opposites so grids keep the same values on the wire.
type Token int8

const (
	Empty   Token = 0
	PlayerA Token = 1  // red, moves first
	PlayerB Token = -1 // blue
)

// Opponent returns the other player's token. Empty has no opponent.
func (t Token) Opponent() Token {
	switch t {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

// Valid reports whether t is one of the two player tokens.
func (t Token) Valid() bool {
	return t == PlayerA || t == PlayerB
}

func (t Token) String() string {
	switch t {
	case Empty:
		return "empty"
	case PlayerA:
		return "red"
	case PlayerB:
		return "blue"
	}
	return fmt.Sprintf("Token(%d)", int8(t))
}

const (
	Width      = 7
	Height     = 6
	WinLength  = 4
	TotalCells = Width * Height
)

// GameResult is derived from the most recent move, never stored.
type GameResult string

const (
	Continue GameResult = "continue"
	Win      GameResult = "win"
	Draw     GameResult = "draw"
)

// PointResult is the outcome of probing a single cell for an alignment.
type PointResult bool

const (
	PointWin   PointResult = true
	PointNoWin PointResult = false
)

func (p PointResult) String() string {
	if p {
		return "WIN"
	}
	return "NOWIN"
}

// to represent the game status
type GameStatus string

const (
	StatusPaused GameStatus = "paused"
	StatusTurn   GameStatus = "turn"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove  Error = "invalid move"
	ErrEmptyHistory Error = "empty history"
	ErrOutOfRange   Error = "column out of range"
	ErrColumnFull   Error = "column is full"
	ErrBadToken     Error = "unrecognized token"
	ErrGameOver     Error = "game is over"
	ErrNotStarted   Error = "game has not started"
	ErrNotYourTurn  Error = "not your turn"
	ErrNotFound     Error = "not found"
)
