package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect4-engine/internal/config"
	"github.com/iamasit07/connect4-engine/internal/logx"
	"github.com/iamasit07/connect4-engine/internal/repository/postgres"
	"github.com/iamasit07/connect4-engine/internal/repository/redis"
	"github.com/iamasit07/connect4-engine/internal/service/cleanup"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-engine/internal/transport/http"
	"github.com/iamasit07/connect4-engine/internal/transport/websocket"
	"github.com/iamasit07/connect4-engine/pkg/auth"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.LoadConfig()
	logx.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence is optional: without a database finished games are not
	// stored, and without Redis unfinished games live only in memory.
	var (
		repo           game.GameRepository
		historyHandler *transportHttp.HistoryHandler
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database unreachable")
		}
		defer db.Close()

		log.Info().Msg("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}

		gameRepo := postgres.NewGameRepo(db)
		repo = gameRepo
		historyHandler = transportHttp.NewHistoryHandler(gameRepo)
	} else {
		log.Warn().Msg("DATABASE_URL not set, finished games will not be stored")
	}

	var cache game.SnapshotCache
	if client := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
		defer client.Close()
		cache = redis.NewSnapshotCache(client, cfg.SnapshotTTL)
	}

	sessions := game.NewSessionManager(repo, cache)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	wsHandler := websocket.NewHandler(sessions, tokens, cfg.AllowedOrigins)
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Games:          transportHttp.NewGameHandler(sessions, tokens, historyHandler),
		History:        historyHandler,
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cleanup.NewWorker(sessions, cfg.SessionIdleTimeout, cfg.CleanupInterval).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server is shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
	}

	sessions.Wait()
	log.Info().Msg("server exited gracefully")
}
