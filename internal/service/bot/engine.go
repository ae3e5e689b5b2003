package bot

import (
	"context"
	"fmt"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

type PlayerKind string

const (
	KindHuman  PlayerKind = "human"
	KindEngine PlayerKind = "engine"
	KindRandom PlayerKind = "random"
)

func ParseKind(s string) (PlayerKind, error) {
	switch k := PlayerKind(s); k {
	case KindHuman, KindEngine, KindRandom:
		return k, nil
	}
	return "", fmt.Errorf("unknown player kind %q", s)
}

// PlayerStrategy produces the next move for one side of a game.
type PlayerStrategy interface {
	Token() domain.Token
	Kind() PlayerKind
	NextMove(ctx context.Context, board *domain.Board) (domain.Move, error)
}

// ColumnSource supplies the column a human picked. It blocks until one is
// available or ctx is done.
type ColumnSource interface {
	NextColumn(ctx context.Context) (int, error)
}

// ColumnFunc adapts a function to ColumnSource.
type ColumnFunc func(ctx context.Context) (int, error)

func (f ColumnFunc) NextColumn(ctx context.Context) (int, error) { return f(ctx) }

// ColumnChan is a ColumnSource fed by a channel.
type ColumnChan chan int

func (c ColumnChan) NextColumn(ctx context.Context) (int, error) {
	select {
	case col := <-c:
		return col, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// HumanPlayer forwards whatever column its source supplies. Legality is
// left to the board.
type HumanPlayer struct {
	token  domain.Token
	source ColumnSource
}

func NewHumanPlayer(token domain.Token, source ColumnSource) *HumanPlayer {
	return &HumanPlayer{token: token, source: source}
}

func (p *HumanPlayer) Token() domain.Token { return p.token }
func (p *HumanPlayer) Kind() PlayerKind    { return KindHuman }

func (p *HumanPlayer) NextMove(ctx context.Context, _ *domain.Board) (domain.Move, error) {
	if p.source == nil {
		return domain.Move{}, fmt.Errorf("human player %v has no column source", p.token)
	}
	col, err := p.source.NextColumn(ctx)
	if err != nil {
		return domain.Move{}, err
	}
	return domain.NewMove(col, p.token), nil
}

// EnginePlayer asks a Searcher. The board it is given must be the one the
// searcher was built over.
type EnginePlayer struct {
	token    domain.Token
	searcher *Searcher
}

func NewEnginePlayer(token domain.Token, searcher *Searcher) *EnginePlayer {
	return &EnginePlayer{token: token, searcher: searcher}
}

func (p *EnginePlayer) Token() domain.Token { return p.token }
func (p *EnginePlayer) Kind() PlayerKind    { return KindEngine }
func (p *EnginePlayer) Searcher() *Searcher { return p.searcher }

func (p *EnginePlayer) NextMove(ctx context.Context, _ *domain.Board) (domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return domain.Move{}, err
	}
	return domain.NewMove(p.searcher.ChooseMove(p.token), p.token), nil
}

// NewPlayer builds the strategy for kind. source is only used by human players.
func NewPlayer(kind PlayerKind, token domain.Token, board *domain.Board, source ColumnSource) (PlayerStrategy, error) {
	if !token.Valid() {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadToken, token)
	}
	switch kind {
	case KindHuman:
		return NewHumanPlayer(token, source), nil
	case KindEngine:
		return NewEnginePlayer(token, NewSearcher(board)), nil
	case KindRandom:
		return NewRandomPlayer(token), nil
	}
	return nil, fmt.Errorf("unknown player kind %q", kind)
}
