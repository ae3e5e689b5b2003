package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

const (
	SearchDepth = 7

	// window bounds used when a search starts without one
	scoreInfinity = 9999.0
)

// ExplorationOrder tries central columns first; they take part in the most
// lines and so produce cutoffs earliest.
var ExplorationOrder = [domain.Width]int{3, 4, 2, 5, 1, 6, 0}

type SearchStats struct {
	Nodes   int
	Cutoffs int
}

// Searcher picks moves with negamax and alpha-beta pruning. It borrows the
// game's own board for the duration of a search and leaves it exactly as it
// found it.
type Searcher struct {
	board *domain.Board
	depth int
	stats SearchStats
}

type SearcherOption func(*Searcher)

// WithDepth overrides SearchDepth. Values below 1 are ignored.
func WithDepth(depth int) SearcherOption {
	return func(s *Searcher) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

func NewSearcher(board *domain.Board, opts ...SearcherOption) *Searcher {
	s := &Searcher{board: board, depth: SearchDepth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Searcher) Depth() int { return s.depth }

// Stats reports counters from the most recent ChooseMove.
func (s *Searcher) Stats() SearchStats { return s.stats }

// ChooseMove returns the column token should play. An immediate win is taken
// without searching; otherwise every legal column is scored and the first
// best one in ExplorationOrder wins ties.
func (s *Searcher) ChooseMove(token domain.Token) int {
	s.stats = SearchStats{}

	for col := 0; col < domain.Width; col++ {
		if s.board.CheckOpen(col) && s.board.CheckWin(col, token) {
			log.Debug().Str("component", "search").Int("column", col).Stringer("token", token).Msg("immediate win")
			return col
		}
	}

	best := 0
	bestScore := -float64(domain.TotalCells)
	for _, col := range ExplorationOrder {
		move := domain.NewMove(col, token)
		if !s.board.ValidateMove(move) {
			continue
		}

		var score float64
		s.explore(move, func() {
			score = -s.Negamax(token.Opponent(), s.depth, -scoreInfinity, scoreInfinity)
		})

		if score > bestScore {
			bestScore = score
			best = col
		}
	}

	log.Debug().
		Str("component", "search").
		Int("column", best).
		Stringer("token", token).
		Float64("score", bestScore).
		Int("nodes", s.stats.Nodes).
		Int("cutoffs", s.stats.Cutoffs).
		Msg("move chosen")
	return best
}

// Negamax scores the position for token, the side to move. Scores are
// zero-sum: every recursive call negates and swaps the window.
func (s *Searcher) Negamax(token domain.Token, depth int, alpha, beta float64) float64 {
	s.stats.Nodes++

	if depth == 0 {
		return EvalPosition(s.board, token)
	}

	if s.board.MoveCount() > 0 {
		if state, _ := s.board.EvalState(); state == domain.Draw {
			return 0
		}
	}

	// a win now beats everything; sooner wins score higher
	bound := winScore(s.board.MoveCount())
	for col := 0; col < domain.Width; col++ {
		if s.board.CheckOpen(col) && s.board.CheckWin(col, token) {
			return bound
		}
	}

	// nothing below this node can score more than winning on the next ply
	if beta > bound {
		beta = bound
		if alpha >= beta {
			return beta
		}
	}

	for _, col := range ExplorationOrder {
		move := domain.NewMove(col, token)
		if !s.board.ValidateMove(move) {
			continue
		}

		var score float64
		s.explore(move, func() {
			score = -s.Negamax(token.Opponent(), depth-1, -beta, -alpha)
		})

		if score >= beta {
			s.stats.Cutoffs++
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// explore runs fn with move applied. Only validated moves reach here, so a
// failure means the board was corrupted elsewhere.
func (s *Searcher) explore(move domain.Move, fn func()) {
	if err := s.board.Explore(move, fn); err != nil {
		panic(err)
	}
}

// winScore is the value of winning with the next move after played moves.
func winScore(played int) float64 {
	return float64(domain.TotalCells-(played+1)) / 2
}
