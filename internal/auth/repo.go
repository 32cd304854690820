package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionLog records web login sessions in postgres for auditing. The
// authoritative session state lives in Redis; these rows exist so staff
// can review login history and so the purge job has something to reap.
type SessionLog interface {
	CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// PGSessionLog implements SessionLog using PostgreSQL.
type PGSessionLog struct {
	pool *pgxpool.Pool
}

// NewSessionLog constructs a PostgreSQL session log.
func NewSessionLog(pool *pgxpool.Pool) *PGSessionLog {
	return &PGSessionLog{pool: pool}
}

// CreateSession persists a new login session row.
func (r *PGSessionLog) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO web_sessions (id, user_id, created_at, expires_at, ip, ua) VALUES ($1, $2, NOW(), $3, $4, $5)`,
		id, userID, expiresAt.UTC(), ip, ua,
	)
	return err
}

// DeleteSession removes a session row.
func (r *PGSessionLog) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM web_sessions WHERE id = $1`, id)
	return err
}

// PurgeExpired deletes rows whose expiry has passed and returns the count.
func (r *PGSessionLog) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM web_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ SessionLog = (*PGSessionLog)(nil)
