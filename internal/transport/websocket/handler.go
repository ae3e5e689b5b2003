package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/iamasit07/connect4-engine/pkg/auth"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler serves one game per connection. The client authenticates with
// the token it got when the game was created.
type Handler struct {
	Sessions *game.SessionManager
	Tokens   *auth.TokenIssuer
	Upgrader websocket.Upgrader
}

func NewHandler(sessions *game.SessionManager, tokens *auth.TokenIssuer, allowedOrigins []string) *Handler {
	return &Handler{
		Sessions: sessions,
		Tokens:   tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Tokens.ValidateGameToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := h.Sessions.Resume(r.Context(), claims.GameID)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "ws").Msg("upgrade error")
		return
	}

	h.handleConnection(conn, session)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn, session *game.GameSession) {
	defer conn.Close()

	logger := log.With().Str("component", "ws").Str("game_id", session.GameID).Logger()
	logger.Info().Msg("client connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	go keepAlive(ctx, conn)

	if err := send(conn, ServerMessage{Type: MsgState, Payload: session.State()}); err != nil {
		return
	}

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("read error")
			}
			logger.Info().Msg("client disconnected")
			return
		}

		reply := h.dispatch(ctx, session, msg)
		if err := send(conn, reply); err != nil {
			logger.Warn().Err(err).Msg("write error")
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, session *game.GameSession, msg ClientMessage) ServerMessage {
	switch msg.Type {
	case MsgResume:
		return ServerMessage{Type: MsgState, Payload: session.State()}
	case MsgMove:
		if msg.Column == nil {
			return errorMessage("column is required")
		}
		state, err := session.SubmitColumn(ctx, *msg.Column)
		if err != nil {
			return errorMessage(err.Error())
		}
		return ServerMessage{Type: MsgState, Payload: state}
	}
	return errorMessage("unknown message type " + msg.Type)
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: MsgError, Payload: errorPayload{Message: text}}
}

func send(conn *websocket.Conn, msg ServerMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

// keepAlive pings until ctx is done. WriteControl may run alongside WriteJSON.
func keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(allowed, origin)
	}
}
