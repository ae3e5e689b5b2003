package domain

import "fmt"

// Board is a Connect-Four grid plus the moves that produced it.
// Row 0 is the top row; tokens settle in the highest row index that is empty.
// A Board is not safe for concurrent use.
type Board struct {
	grid    [Height][Width]Token
	history []Move
}

func NewBoard() *Board {
	return &Board{history: make([]Move, 0, TotalCells)}
}

// Reset clears the grid and history.
func (b *Board) Reset() {
	b.grid = [Height][Width]Token{}
	b.history = b.history[:0]
}

// Grid returns a copy of the cells, keyed by the same token values used internally.
func (b *Board) Grid() [Height][Width]Token {
	return b.grid
}

func (b *Board) At(col, row int) Token {
	if !inBounds(col, row) {
		return Empty
	}
	return b.grid[row][col]
}

// History returns a copy of the applied moves, oldest first.
func (b *Board) History() []Move {
	out := make([]Move, len(b.history))
	copy(out, b.history)
	return out
}

func (b *Board) MoveCount() int {
	return len(b.history)
}

func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1], true
}

// Columns returns the played columns in order.
func (b *Board) Columns() []int {
	cols := make([]int, len(b.history))
	for i, m := range b.history {
		cols[i] = m.Column
	}
	return cols
}

func (b *Board) CheckOpen(column int) bool {
	if column < 0 || column >= Width {
		return false
	}
	return b.grid[0][column] == Empty
}

// ValidateMove is the non-failing legality check used before exploring a column.
func (b *Board) ValidateMove(m Move) bool {
	return m.Token.Valid() && b.CheckOpen(m.Column)
}

// ApplyMove drops the token into the lowest empty cell of its column.
// Every failure wraps ErrInvalidMove.
func (b *Board) ApplyMove(m Move) error {
	if m.Column < 0 || m.Column >= Width {
		return fmt.Errorf("%w: column %d: %w", ErrInvalidMove, m.Column, ErrOutOfRange)
	}
	if !m.Token.Valid() {
		return fmt.Errorf("%w: %v: %w", ErrInvalidMove, m.Token, ErrBadToken)
	}
	row := b.landingRow(m.Column)
	if row < 0 {
		return fmt.Errorf("%w: column %d: %w", ErrInvalidMove, m.Column, ErrColumnFull)
	}

	b.grid[row][m.Column] = m.Token
	b.history = append(b.history, m)
	return nil
}

// Undo reverses the most recent ApplyMove. The caller is trusted that the
// top of the column still holds that move's token.
func (b *Board) Undo() error {
	if len(b.history) == 0 {
		return ErrEmptyHistory
	}
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	if row := b.topRow(last.Column); row >= 0 {
		b.grid[row][last.Column] = Empty
	}
	return nil
}

// Explore applies m, runs fn, then undoes m on every return path, panics included.
func (b *Board) Explore(m Move, fn func()) error {
	if err := b.ApplyMove(m); err != nil {
		return err
	}
	defer func() { _ = b.Undo() }()
	fn()
	return nil
}

// CheckWin reports whether dropping token into column would complete a line.
// The grid is restored before returning and history is never touched.
func (b *Board) CheckWin(column int, token Token) bool {
	if column < 0 || column >= Width || !token.Valid() {
		return false
	}
	row := b.landingRow(column)
	if row < 0 {
		return false
	}

	b.grid[row][column] = token
	result := b.EvalPoint(column, row)
	b.grid[row][column] = Empty

	return result == PointWin
}

// EvalState evaluates the cell of the last move in history.
func (b *Board) EvalState() (GameResult, error) {
	last, ok := b.LastMove()
	if !ok {
		return Continue, ErrEmptyHistory
	}

	if row := b.topRow(last.Column); row >= 0 && b.EvalPoint(last.Column, row) == PointWin {
		return Win, nil
	}
	if b.IsFull() {
		return Draw, nil
	}
	return Continue, nil
}

func (b *Board) IsFull() bool {
	for c := 0; c < Width; c++ {
		if b.grid[0][c] == Empty {
			return false
		}
	}
	return true
}

// Replay resets the board and plays columns with alternating tokens, starting with first.
func (b *Board) Replay(columns []int, first Token) error {
	b.Reset()
	token := first
	for i, col := range columns {
		if err := b.ApplyMove(NewMove(col, token)); err != nil {
			return fmt.Errorf("replay move %d: %w", i, err)
		}
		token = token.Opponent()
	}
	return nil
}

// landingRow is the lowest empty row of column, or -1 when the column is full.
func (b *Board) landingRow(column int) int {
	for row := Height - 1; row >= 0; row-- {
		if b.grid[row][column] == Empty {
			return row
		}
	}
	return -1
}

// topRow is the highest occupied row of column, or -1 when the column is empty.
func (b *Board) topRow(column int) int {
	for row := 0; row < Height; row++ {
		if b.grid[row][column] != Empty {
			return row
		}
	}
	return -1
}

func inBounds(col, row int) bool {
	return col >= 0 && col < Width && row >= 0 && row < Height
}
