package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// IdleSessionStore is the part of the session manager the worker needs.
type IdleSessionStore interface {
	CleanupIdle(maxIdle time.Duration) int
}

type Worker struct {
	Sessions IdleSessionStore
	MaxIdle  time.Duration
	Interval time.Duration
}

func NewWorker(sessions IdleSessionStore, maxIdle, interval time.Duration) *Worker {
	return &Worker{Sessions: sessions, MaxIdle: maxIdle, Interval: interval}
}

// Run cleans up once immediately, then every Interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Str("component", "cleanup").Dur("interval", w.Interval).Msg("background worker started")

	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "cleanup").Msg("background worker stopped")
			return nil
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupIdle(w.MaxIdle)
	log.Debug().Str("component", "cleanup").Int("removed", removed).Msg("scheduled cleanup finished")
}
