// Package jobs defines the background task types and their handlers.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/gazette-news/gazette/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionsPurge reaps expired web session rows.
	TaskSessionsPurge = "sessions:purge"
)

// SessionPurger is the slice of the session log the purge job needs.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// NewSessionsPurgeTask constructs the purge task. It carries no payload.
func NewSessionsPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionsPurge, nil)
}

// NewSessionsPurgeHandler builds the handler for TaskSessionsPurge.
func NewSessionsPurgeHandler(purger SessionPurger, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("sessions_purge")
		count, err := purger.PurgeExpired(ctx)
		if err != nil {
			logger.Error("purge expired sessions", slog.Any("error", err))
			return tracker.End(err)
		}
		metrics.AddSessionsPurged(count)
		if count > 0 {
			logger.Info("purged expired sessions", slog.Int64("count", count))
		}
		return tracker.End(nil)
	}
}
