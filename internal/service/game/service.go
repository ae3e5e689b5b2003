package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/pkg/uid"
)

type GameRepository interface {
	SaveGame(ctx context.Context, record domain.GameRecord) error
}

// SnapshotCache stores unfinished games so they survive a reconnect.
// LoadSnapshot returns domain.ErrNotFound for unknown games.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
	LoadSnapshot(ctx context.Context, gameID string) (*domain.Snapshot, error)
	DeleteSnapshot(ctx context.Context, gameID string) error
}

// State is what a driver needs to render a game and decide what to ask next.
type State struct {
	GameID     string            `json:"game_id"`
	Grid       [][]int           `json:"grid"`
	Turn       domain.Token      `json:"turn"`
	Status     domain.GameStatus `json:"status"`
	Winner     domain.Token      `json:"winner"`
	Outcome    string            `json:"outcome,omitempty"`
	LastColumn *int              `json:"last_column,omitempty"`
	Moves      int               `json:"moves"`
	Red        bot.PlayerKind    `json:"red"`
	Blue       bot.PlayerKind    `json:"blue"`
}

// GameSession is one game between two player strategies. Human moves arrive
// through SubmitColumn; engine moves are made as soon as it is their turn.
type GameSession struct {
	GameID     string
	Game       *domain.Game
	Players    map[domain.Token]bot.PlayerStrategy
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time

	humanInput bot.ColumnChan
	mu         sync.Mutex
	manager    *SessionManager

	// UpdatedAt in unix nanoseconds, readable without mu
	lastActive atomic.Int64
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex
	repo     GameRepository
	cache    SnapshotCache
	saves    sync.WaitGroup
	resumes  singleflight.Group
}

// NewSessionManager accepts nil for repo or cache; the matching feature is then skipped.
func NewSessionManager(repo GameRepository, cache SnapshotCache) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		repo:     repo,
		cache:    cache,
	}
}

// CreateSession starts a new game. If red is not human the engine moves
// before this returns, and an engine-only game is played to the end.
func (sm *SessionManager) CreateSession(ctx context.Context, red, blue bot.PlayerKind) (*GameSession, error) {
	gs, err := sm.newSession(uid.GenerateGameID(), red, blue, time.Now())
	if err != nil {
		return nil, err
	}

	gs.mu.Lock()
	gs.Game.Start()
	err = gs.advance(ctx)
	gs.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sm.register(gs)
	log.Info().Str("component", "session").Str("game_id", gs.GameID).
		Str("red", string(red)).Str("blue", string(blue)).Msg("session created")
	return gs, nil
}

// Resume returns the live session for gameID, rebuilding it from the
// snapshot cache when this process no longer holds it.
func (sm *SessionManager) Resume(ctx context.Context, gameID string) (*GameSession, error) {
	if gs, ok := sm.Get(gameID); ok {
		return gs, nil
	}
	if sm.cache == nil {
		return nil, fmt.Errorf("session %s: %w", gameID, domain.ErrNotFound)
	}

	// concurrent resumes of one game share a single rebuild
	v, err, _ := sm.resumes.Do(gameID, func() (any, error) {
		return sm.restore(ctx, gameID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*GameSession), nil
}

func (sm *SessionManager) restore(ctx context.Context, gameID string) (*GameSession, error) {
	if gs, ok := sm.Get(gameID); ok {
		return gs, nil
	}

	snap, err := sm.cache.LoadSnapshot(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", gameID, err)
	}

	red, err := bot.ParseKind(snap.RedKind)
	if err != nil {
		return nil, err
	}
	blue, err := bot.ParseKind(snap.BlueKind)
	if err != nil {
		return nil, err
	}

	gs, err := sm.newSession(snap.GameID, red, blue, snap.CreatedAt)
	if err != nil {
		return nil, err
	}

	gs.mu.Lock()
	gs.Game.Start()
	for i, col := range snap.Columns {
		if _, err := gs.Game.Play(col); err != nil {
			gs.mu.Unlock()
			return nil, fmt.Errorf("replay snapshot %s move %d: %w", gameID, i, err)
		}
	}
	err = gs.advance(ctx)
	gs.mu.Unlock()
	if err != nil {
		return nil, err
	}

	registered := sm.register(gs)
	log.Info().Str("component", "session").Str("game_id", gameID).Int("moves", len(snap.Columns)).Msg("session resumed")
	return registered, nil
}

func (sm *SessionManager) Get(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gs, ok := sm.sessions[gameID]
	return gs, ok
}

func (sm *SessionManager) Remove(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, gameID)
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// CleanupIdle drops sessions untouched for longer than maxIdle and returns how many went.
// Unfinished games stay resumable through the snapshot cache.
// Sessions busy with a search are never waited on.
func (sm *SessionManager) CleanupIdle(maxIdle time.Duration) int {
	sm.mu.RLock()
	sessions := lo.Values(sm.sessions)
	sm.mu.RUnlock()

	now := time.Now()
	stale := lo.Filter(sessions, func(gs *GameSession, _ int) bool {
		return now.Sub(gs.lastActivity()) > maxIdle
	})
	if len(stale) == 0 {
		return 0
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for _, gs := range stale {
		// skip sessions replaced or already removed since the scan
		if sm.sessions[gs.GameID] == gs {
			delete(sm.sessions, gs.GameID)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Str("component", "session").Int("removed", removed).Msg("idle sessions cleaned up")
	}
	return removed
}

// Wait blocks until pending game saves have finished.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

func (sm *SessionManager) newSession(gameID string, red, blue bot.PlayerKind, createdAt time.Time) (*GameSession, error) {
	gs := &GameSession{
		GameID:     gameID,
		Game:       domain.NewGame(),
		Players:    make(map[domain.Token]bot.PlayerStrategy, 2),
		CreatedAt:  createdAt,
		humanInput: make(bot.ColumnChan, 1),
		manager:    sm,
	}
	gs.touch(time.Now())

	for token, kind := range map[domain.Token]bot.PlayerKind{domain.PlayerA: red, domain.PlayerB: blue} {
		player, err := bot.NewPlayer(kind, token, gs.Game.Board, gs.humanInput)
		if err != nil {
			return nil, err
		}
		gs.Players[token] = player
	}
	return gs, nil
}

// register stores gs unless a session for the same game is already held,
// and returns whichever one is registered.
func (sm *SessionManager) register(gs *GameSession) *GameSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if existing, ok := sm.sessions[gs.GameID]; ok {
		return existing
	}
	sm.sessions[gs.GameID] = gs
	return gs
}

// SubmitColumn plays a human move, then any engine replies.
func (gs *GameSession) SubmitColumn(ctx context.Context, column int) (State, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	switch {
	case gs.Game.IsFinished():
		return gs.stateLocked(), domain.ErrGameOver
	case gs.Game.Status == domain.StatusPaused:
		return gs.stateLocked(), domain.ErrNotStarted
	case gs.Players[gs.Game.Turn].Kind() != bot.KindHuman:
		return gs.stateLocked(), domain.ErrNotYourTurn
	}

	gs.humanInput <- column
	if err := gs.step(ctx); err != nil {
		// drop the column if the player never consumed it
		select {
		case <-gs.humanInput:
		default:
		}
		return gs.stateLocked(), err
	}

	if err := gs.advance(ctx); err != nil {
		return gs.stateLocked(), err
	}
	return gs.stateLocked(), nil
}

func (gs *GameSession) State() State {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.stateLocked()
}

// IsHumanTurn reports whether the game is waiting on SubmitColumn.
func (gs *GameSession) IsHumanTurn() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.Game.Status == domain.StatusTurn && gs.Players[gs.Game.Turn].Kind() == bot.KindHuman
}

// advance lets non-human players move until a human is to move or the game
// ends, then persists the outcome. Caller holds gs.mu.
func (gs *GameSession) advance(ctx context.Context) error {
	for gs.Game.Status == domain.StatusTurn && gs.Players[gs.Game.Turn].Kind() != bot.KindHuman {
		if err := gs.step(ctx); err != nil {
			return err
		}
	}

	gs.touch(time.Now())
	if gs.Game.IsFinished() {
		gs.finish(ctx)
	} else {
		gs.snapshot(ctx)
	}
	return nil
}

// step asks the side to move for its move and plays it. Caller holds gs.mu.
func (gs *GameSession) step(ctx context.Context) error {
	turn := gs.Game.Turn
	player := gs.Players[turn]

	move, err := player.NextMove(ctx, gs.Game.Board)
	if err != nil {
		return err
	}
	if move.Token != turn {
		return fmt.Errorf("%w: %v moved for %v", domain.ErrNotYourTurn, move.Token, turn)
	}

	result, err := gs.Game.Play(move.Column)
	if err != nil {
		return err
	}

	log.Debug().Str("component", "session").Str("game_id", gs.GameID).
		Stringer("token", turn).Int("column", move.Column).Str("result", string(result)).Msg("move played")
	return nil
}

func (gs *GameSession) finish(ctx context.Context) {
	gs.FinishedAt = gs.UpdatedAt
	record := gs.recordLocked()

	log.Info().Str("component", "session").Str("game_id", gs.GameID).
		Str("status", string(record.Status)).Stringer("winner", record.Winner).
		Int("moves", record.TotalMoves()).Msg(gs.Game.Outcome())

	sm := gs.manager
	if sm.cache != nil {
		if err := sm.cache.DeleteSnapshot(ctx, gs.GameID); err != nil {
			log.Warn().Err(err).Str("component", "session").Str("game_id", gs.GameID).Msg("failed to delete snapshot")
		}
	}
	if sm.repo == nil {
		return
	}

	// saved in the background so a finishing move is answered at once
	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(saveCtx, record); err != nil {
			log.Error().Err(err).Str("component", "session").Str("game_id", record.GameID).Msg("error saving game")
			return
		}
		log.Info().Str("component", "session").Str("game_id", record.GameID).Msg("game saved")
	}()
}

func (gs *GameSession) snapshot(ctx context.Context) {
	cache := gs.manager.cache
	if cache == nil {
		return
	}

	snap := domain.Snapshot{
		GameID:    gs.GameID,
		RedKind:   string(gs.Players[domain.PlayerA].Kind()),
		BlueKind:  string(gs.Players[domain.PlayerB].Kind()),
		Columns:   gs.Game.Board.Columns(),
		CreatedAt: gs.CreatedAt,
		UpdatedAt: gs.UpdatedAt,
	}
	if err := cache.SaveSnapshot(ctx, snap); err != nil {
		log.Warn().Err(err).Str("component", "session").Str("game_id", gs.GameID).Msg("failed to save snapshot")
	}
}

func (gs *GameSession) recordLocked() domain.GameRecord {
	return domain.GameRecord{
		GameID:     gs.GameID,
		RedKind:    string(gs.Players[domain.PlayerA].Kind()),
		BlueKind:   string(gs.Players[domain.PlayerB].Kind()),
		Status:     gs.Game.Status,
		Winner:     gs.Game.Winner,
		Columns:    gs.Game.Board.Columns(),
		Grid:       domain.GridInts(gs.Game.Board.Grid()),
		CreatedAt:  gs.CreatedAt,
		FinishedAt: gs.FinishedAt,
	}
}

func (gs *GameSession) stateLocked() State {
	state := State{
		GameID:  gs.GameID,
		Grid:    domain.GridInts(gs.Game.Board.Grid()),
		Turn:    gs.Game.Turn,
		Status:  gs.Game.Status,
		Winner:  gs.Game.Winner,
		Outcome: gs.Game.Outcome(),
		Moves:   gs.Game.Board.MoveCount(),
		Red:     gs.Players[domain.PlayerA].Kind(),
		Blue:    gs.Players[domain.PlayerB].Kind(),
	}
	if last, ok := gs.Game.Board.LastMove(); ok {
		col := last.Column
		state.LastColumn = &col
	}
	return state
}

// touch records activity. Caller holds gs.mu or owns gs exclusively.
func (gs *GameSession) touch(t time.Time) {
	gs.UpdatedAt = t
	gs.lastActive.Store(t.UnixNano())
}

func (gs *GameSession) lastActivity() time.Time {
	return time.Unix(0, gs.lastActive.Load())
}
