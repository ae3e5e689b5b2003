package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame stores a finished game. Saving the same game twice keeps the latest result.
func (r *GameRepo) SaveGame(ctx context.Context, record domain.GameRecord) error {
	columnsJSON, err := json.Marshal(record.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}
	boardJSON, err := json.Marshal(record.Grid)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO game (game_id, red_kind, blue_kind, status, winner, total_moves, columns, board_state, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		status = EXCLUDED.status,
		winner = EXCLUDED.winner,
		total_moves = EXCLUDED.total_moves,
		columns = EXCLUDED.columns,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		record.GameID,
		record.RedKind,
		record.BlueKind,
		string(record.Status),
		int(record.Winner),
		record.TotalMoves(),
		columnsJSON,
		boardJSON,
		record.CreatedAt,
		record.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

const selectGame = `
	SELECT game_id, red_kind, blue_kind, status, winner, columns, board_state, created_at, finished_at
	FROM game
`

// GetGameByID returns domain.ErrNotFound when no game has that id.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	row := r.DB.QueryRowContext(ctx, selectGame+`WHERE game_id = $1;`, gameID)

	record, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return record, nil
}

// ListRecent returns up to limit finished games, newest first.
func (r *GameRepo) ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	rows, err := r.DB.QueryContext(ctx, selectGame+`ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	var games []domain.GameRecord
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game rows: %w", err)
	}
	return games, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*domain.GameRecord, error) {
	var (
		record      domain.GameRecord
		status      string
		winner      int
		columnsJSON []byte
		boardJSON   []byte
	)

	err := s.Scan(
		&record.GameID,
		&record.RedKind,
		&record.BlueKind,
		&status,
		&winner,
		&columnsJSON,
		&boardJSON,
		&record.CreatedAt,
		&record.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = domain.GameStatus(status)
	record.Winner = domain.Token(winner)
	if err := json.Unmarshal(columnsJSON, &record.Columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
	}
	if err := json.Unmarshal(boardJSON, &record.Grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	return &record, nil
}
