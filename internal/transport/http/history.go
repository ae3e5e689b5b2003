package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type GameHistory interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error)
}

type HistoryHandler struct {
	Games GameHistory
}

func NewHistoryHandler(games GameHistory) *HistoryHandler {
	return &HistoryHandler{Games: games}
}

type GameHistoryItem struct {
	ID         string            `json:"id"`
	Red        string            `json:"red"`
	Blue       string            `json:"blue"`
	Status     domain.GameStatus `json:"status"`
	Winner     string            `json:"winner"`
	MovesCount int               `json:"movesCount"`
	FinishedAt time.Time         `json:"finishedAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.Games.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := lo.Map(records, func(r domain.GameRecord, _ int) GameHistoryItem {
		item := GameHistoryItem{
			ID:         r.GameID,
			Red:        r.RedKind,
			Blue:       r.BlueKind,
			Status:     r.Status,
			MovesCount: r.TotalMoves(),
			FinishedAt: r.FinishedAt,
		}
		if r.Status == domain.StatusWon {
			item.Winner = r.Winner.String()
		}
		return item
	})
	c.JSON(http.StatusOK, history)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	record, err := h.Games.GetGameByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	c.JSON(http.StatusOK, record)
}
