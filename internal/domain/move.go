package domain

// Move is a token dropped into a column. Treat it as a value.
type Move struct {
	Column int   `json:"column"`
	Token  Token `json:"token"`
}

func NewMove(column int, token Token) Move {
	return Move{Column: column, Token: token}
}
