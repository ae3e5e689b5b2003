package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/iamasit07/connect4-engine/pkg/auth"
)

type GameHandler struct {
	Sessions *game.SessionManager
	Tokens   *auth.TokenIssuer
	History  *HistoryHandler // optional fallback for finished games
}

func NewGameHandler(sessions *game.SessionManager, tokens *auth.TokenIssuer, history *HistoryHandler) *GameHandler {
	return &GameHandler{Sessions: sessions, Tokens: tokens, History: history}
}

type createGameRequest struct {
	Red  string `json:"red"`
	Blue string `json:"blue"`
}

type createGameResponse struct {
	GameID string     `json:"game_id"`
	Token  string     `json:"token"`
	State  game.State `json:"state"`
}

type moveRequest struct {
	Column *int `json:"column"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	req := createGameRequest{Red: string(bot.KindHuman), Blue: string(bot.KindEngine)}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	red, err := bot.ParseKind(req.Red)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	blue, err := bot.ParseKind(req.Blue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Sessions.CreateSession(c.Request.Context(), red, blue)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
		return
	}

	token, err := h.Tokens.GenerateGameToken(session.GameID)
	if err != nil {
		log.Error().Err(err).Str("game_id", session.GameID).Msg("failed to sign game token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{
		GameID: session.GameID,
		Token:  token,
		State:  session.State(),
	})
}

// GetGame serves a live game, or the stored record once it is no longer held in memory.
func (h *GameHandler) GetGame(c *gin.Context) {
	session, err := h.Sessions.Resume(c.Request.Context(), c.Param("id"))
	if err == nil {
		c.JSON(http.StatusOK, session.State())
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Str("game_id", c.Param("id")).Msg("failed to resume game")
	}

	if h.History != nil {
		h.History.GetGameDetails(c)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
}

// PlayMove submits a human move. The bearer token must belong to the game.
func (h *GameHandler) PlayMove(c *gin.Context) {
	gameID := c.Param("id")

	bearer := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	claims, err := h.Tokens.ValidateGameToken(bearer)
	if err != nil || claims.GameID != gameID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	session, err := h.Sessions.Resume(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error()})
		return
	}

	state, err := session.SubmitColumn(c.Request.Context(), *req.Column)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error(), "state": state})
		return
	}
	c.JSON(http.StatusOK, state)
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidMove):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrNotYourTurn), errors.Is(err, domain.ErrNotStarted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
