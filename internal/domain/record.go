package domain

import "time"

// GameRecord is a finished game as it is persisted.
type GameRecord struct {
	GameID     string     `json:"game_id"`
	RedKind    string     `json:"red"`
	BlueKind   string     `json:"blue"`
	Status     GameStatus `json:"status"`
	Winner     Token      `json:"winner"`
	Columns    []int      `json:"columns"`
	Grid       [][]int    `json:"grid"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

func (r GameRecord) TotalMoves() int {
	return len(r.Columns)
}

// Snapshot holds enough of an unfinished game to replay it.
type Snapshot struct {
	GameID    string    `json:"game_id"`
	RedKind   string    `json:"red"`
	BlueKind  string    `json:"blue"`
	Columns   []int     `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GridInts converts a grid to plain ints for storage and JSON.
func GridInts(grid [Height][Width]Token) [][]int {
	out := make([][]int, Height)
	for row := range grid {
		out[row] = make([]int, Width)
		for col, tok := range grid[row] {
			out[row][col] = int(tok)
		}
	}
	return out
}
