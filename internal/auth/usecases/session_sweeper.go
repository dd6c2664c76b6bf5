package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"entrybase-server/internal/infra/async"
)

const defaultSweepSchedule = "@every 10m"

func NewSessionSweeper(sessions SessionRepository) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		schedule: defaultSweepSchedule,
		cron:     cron.New(),
	}
}

var _ async.Worker = (*SessionSweeper)(nil)

// SessionSweeper removes expired sessions on a fixed schedule. Expired
// sessions already fail authentication, the sweep just keeps the table from
// growing without bound.
type SessionSweeper struct {
	sessions SessionRepository
	schedule string
	cron     *cron.Cron
}

func (w *SessionSweeper) Run(ctx context.Context, done func()) {
	defer done()

	_, err := w.cron.AddFunc(w.schedule, func() {
		w.sweep(ctx)
	})
	if err != nil {
		slog.Error("scheduling session sweep", slog.String("error", err.Error()))
		return
	}

	slog.Info("session sweeper started", slog.String("schedule", w.schedule))
	w.cron.Start()

	<-ctx.Done()
	<-w.cron.Stop().Done()
}

func (w *SessionSweeper) Shutdown() {
	w.cron.Stop()
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	deleted, err := w.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("sweeping expired sessions", slog.String("error", err.Error()))
		return
	}

	if deleted > 0 {
		slog.Info("expired sessions removed", slog.Int64("count", deleted))
	}
}
