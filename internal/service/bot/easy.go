package bot

import (
	"context"

	"lukechampine.com/frand"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

// RandomPlayer wins when it can, blocks an immediate loss, and otherwise
// plays a uniformly random open column.
type RandomPlayer struct {
	token domain.Token
}

func NewRandomPlayer(token domain.Token) *RandomPlayer {
	return &RandomPlayer{token: token}
}

func (p *RandomPlayer) Token() domain.Token { return p.token }
func (p *RandomPlayer) Kind() PlayerKind    { return KindRandom }

func (p *RandomPlayer) NextMove(ctx context.Context, board *domain.Board) (domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return domain.Move{}, err
	}

	validColumns := openColumns(board)
	if len(validColumns) == 0 {
		return domain.Move{}, domain.ErrColumnFull
	}

	for _, col := range validColumns {
		if board.CheckWin(col, p.token) {
			return domain.NewMove(col, p.token), nil
		}
	}

	opponent := p.token.Opponent()
	for _, col := range validColumns {
		if board.CheckWin(col, opponent) {
			return domain.NewMove(col, p.token), nil
		}
	}

	return domain.NewMove(validColumns[frand.Intn(len(validColumns))], p.token), nil
}

func openColumns(board *domain.Board) []int {
	cols := make([]int, 0, domain.Width)
	for col := 0; col < domain.Width; col++ {
		if board.CheckOpen(col) {
			cols = append(cols, col)
		}
	}
	return cols
}
