package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/iamasit07/connect4-engine/pkg/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

type fakeHistory struct {
	records []domain.GameRecord
}

func (f *fakeHistory) GetGameByID(_ context.Context, gameID string) (*domain.GameRecord, error) {
	for i := range f.records {
		if f.records[i].GameID == gameID {
			return &f.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHistory) ListRecent(_ context.Context, limit int) ([]domain.GameRecord, error) {
	return f.records[:min(limit, len(f.records))], nil
}

func newTestRouter(history GameHistory) *gin.Engine {
	var historyHandler *HistoryHandler
	if history != nil {
		historyHandler = NewHistoryHandler(history)
	}
	games := NewGameHandler(game.NewSessionManager(nil, nil), auth.NewTokenIssuer("test-secret", time.Hour), historyHandler)
	return NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		Games:          games,
		History:        historyHandler,
	})
}

func do(router http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createGame(t *testing.T, router http.Handler, body string) createGameResponse {
	t.Helper()
	rec := do(router, http.MethodPost, "/api/games", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp createGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateGameDefaultsToHumanVsEngine(t *testing.T) {
	router := newTestRouter(nil)
	resp := createGame(t, router, "")

	assert.NotEmpty(t, resp.GameID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "human", string(resp.State.Red))
	assert.Equal(t, "engine", string(resp.State.Blue))
	assert.Zero(t, resp.State.Moves)
}

func TestCreateGameRejectsUnknownKind(t *testing.T) {
	rec := do(newTestRouter(nil), http.MethodPost, "/api/games", `{"red":"alien","blue":"engine"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayMove(t *testing.T) {
	router := newTestRouter(nil)
	resp := createGame(t, router, `{"red":"human","blue":"engine"}`)
	headers := map[string]string{"Authorization": "Bearer " + resp.Token}
	path := "/api/games/" + resp.GameID + "/moves"

	rec := do(router, http.MethodPost, path, `{"column":2}`, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var state game.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 2, state.Moves)

	rec = do(router, http.MethodPost, path, `{"column":7}`, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, path, `{}`, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, path, `{"column":2}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodGet, "/api/games/"+resp.GameID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 2, state.Moves)
}

func TestPlayMoveWithTokenForOtherGame(t *testing.T) {
	router := newTestRouter(nil)
	first := createGame(t, router, "")
	second := createGame(t, router, "")

	rec := do(router, http.MethodPost, "/api/games/"+second.GameID+"/moves", `{"column":3}`,
		map[string]string{"Authorization": "Bearer " + first.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetGameFallsBackToHistory(t *testing.T) {
	history := &fakeHistory{records: []domain.GameRecord{{
		GameID:  "old",
		Status:  domain.StatusWon,
		Winner:  domain.PlayerB,
		Columns: []int{3, 2},
	}}}
	router := newTestRouter(history)

	rec := do(router, http.MethodGet, "/api/games/old", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var record domain.GameRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, domain.PlayerB, record.Winner)

	rec = do(router, http.MethodGet, "/api/games/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(newTestRouter(nil), http.MethodGet, "/api/games/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHistory(t *testing.T) {
	history := &fakeHistory{records: []domain.GameRecord{
		{GameID: "a", Status: domain.StatusWon, Winner: domain.PlayerA, Columns: []int{0, 1, 0, 1, 0, 1, 0}},
		{GameID: "b", Status: domain.StatusDraw},
	}}
	router := newTestRouter(history)

	rec := do(router, http.MethodGet, "/api/history?limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []GameHistoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "red", items[0].Winner)
	assert.Equal(t, 7, items[0].MovesCount)
	assert.Empty(t, items[1].Winner)

	rec = do(router, http.MethodGet, "/api/history?limit=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(nil)

	rec := do(router, http.MethodGet, "/healthz", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(router, http.MethodGet, "/healthz", "", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodOptions, "/api/games", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrInvalidMove))
	assert.Equal(t, http.StatusConflict, StatusFor(domain.ErrGameOver))
	assert.Equal(t, http.StatusConflict, StatusFor(domain.ErrNotYourTurn))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
