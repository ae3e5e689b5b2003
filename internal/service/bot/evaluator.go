package bot

import (
	"github.com/iamasit07/connect4-engine/internal/domain"
)

// heatMap weights each cell by how many lines run through it: the center
// column and the lower rows score highest, the edges and top row least.
var heatMap = [domain.Height][domain.Width]float64{
	{0, 0, 0, 0.4, 0, 0, 0},
	{0, 0.1, 0.2, 0.6, 0.2, 0.1, 0},
	{0, 0.1, 0.4, 0.8, 0.4, 0.1, 0},
	{0, 0.2, 0.8, 1, 0.8, 0.2, 0},
	{0.1, 0.4, 1, 1, 1, 0.4, 0.1},
	{0.2, 0.6, 1, 1, 1, 0.6, 0.2},
}

// EvalPosition statically scores the board for forToken: the weights of its
// own cells minus the weights of the opponent's cells. It knows nothing
// about alignments.
func EvalPosition(board *domain.Board, forToken domain.Token) float64 {
	opponent := forToken.Opponent()
	grid := board.Grid()

	score := 0.0
	for row := 0; row < domain.Height; row++ {
		for col := 0; col < domain.Width; col++ {
			switch grid[row][col] {
			case forToken:
				score += heatMap[row][col]
			case opponent:
				score -= heatMap[row][col]
			}
		}
	}
	return score
}
