package domain

// Game drives turns over a Board: Paused -> Turn(A) -> Turn(B) -> ... -> Won | Draw.
type Game struct {
	Board  *Board
	Status GameStatus
	Turn   Token
	Winner Token
}

func NewGame() *Game {
	return &Game{
		Board:  NewBoard(),
		Status: StatusPaused,
		Turn:   Empty,
		Winner: Empty,
	}
}

// Start clears the board and gives the first move to PlayerA.
func (g *Game) Start() {
	g.Board.Reset()
	g.Status = StatusTurn
	g.Turn = PlayerA
	g.Winner = Empty
}

// Play drops the side-to-move's token into column and advances the state.
func (g *Game) Play(column int) (GameResult, error) {
	switch g.Status {
	case StatusPaused:
		return Continue, ErrNotStarted
	case StatusWon, StatusDraw:
		return Continue, ErrGameOver
	}

	if err := g.Board.ApplyMove(NewMove(column, g.Turn)); err != nil {
		return Continue, err
	}

	result, err := g.Board.EvalState()
	if err != nil {
		return Continue, err
	}

	switch result {
	case Win:
		g.Status = StatusWon
		g.Winner = g.Turn
	case Draw:
		g.Status = StatusDraw
	default:
		g.Turn = g.Turn.Opponent()
	}
	return result, nil
}

// Undo takes back the last move and hands the turn back to whoever made it.
func (g *Game) Undo() error {
	last, ok := g.Board.LastMove()
	if !ok {
		return ErrEmptyHistory
	}
	if err := g.Board.Undo(); err != nil {
		return err
	}
	g.Status = StatusTurn
	g.Turn = last.Token
	g.Winner = Empty
	return nil
}

// Restore starts a fresh game and replays columns through Play.
func Restore(columns []int) (*Game, error) {
	g := NewGame()
	g.Start()
	for _, col := range columns {
		if _, err := g.Play(col); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// Outcome is the line shown once the game ends, empty while it continues.
func (g *Game) Outcome() string {
	switch {
	case g.Status == StatusDraw:
		return "It's a draw."
	case g.Status == StatusWon && g.Winner == PlayerA:
		return "Red Wins!"
	case g.Status == StatusWon && g.Winner == PlayerB:
		return "Blue Wins!"
	}
	return ""
}
