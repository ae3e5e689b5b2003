package domain

// the four alignment directions as (deltaCol, deltaRow)
var directions = [4][2]int{
	{1, 0},  // horizontal
	{0, 1},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// EvalPoint checks whether the token at (col, row) is part of WinLength
// identical tokens in a line. Only cells within WinLength-1 of the point
// are considered.
func (b *Board) EvalPoint(col, row int) PointResult {
	if !inBounds(col, row) {
		return PointNoWin
	}
	token := b.grid[row][col]
	if token == Empty {
		return PointNoWin
	}

	for _, dir := range directions {
		dc, dr := dir[0], dir[1]
		count := 1 + b.countRun(col, row, dc, dr, token) + b.countRun(col, row, -dc, -dr, token)
		if count >= WinLength {
			return PointWin
		}
	}
	return PointNoWin
}

// countRun counts consecutive cells holding token, stepping away from (col, row)
// without including it.
func (b *Board) countRun(col, row, dc, dr int, token Token) int {
	count := 0
	c, r := col+dc, row+dr
	for i := 1; i < WinLength && inBounds(c, r) && b.grid[r][c] == token; i++ {
		count++
		c += dc
		r += dr
	}
	return count
}
