package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-catalog/internal/data/entity"
	"media-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// FindActive returns nil, nil when no live session matches the token.
	FindActive(ctx context.Context, token string) (*entity.ActiveSession, error)
	Revoke(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.Token,
		session.UserAgent, session.IPAddress,
		session.ExpiresAt, session.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("insert session for %s: %w", session.UserID, ErrNoRows)
	}
	if err != nil {
		r.log.Error("Session insert failed", zap.Error(err), zap.String("user_id", session.UserID.String()))
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

const activeSessionQuery = `
	SELECT s.id, s.user_id, s.token, s.user_agent, s.ip_address,
	       s.expires_at, s.created_at, p.username, p.is_admin
	FROM sessions s
	JOIN profiles p ON p.id = s.user_id
	WHERE s.token = $1
	  AND s.revoked_at IS NULL
	  AND s.expires_at > NOW()`

func (r *sessionRepository) FindActive(ctx context.Context, token string) (*entity.ActiveSession, error) {
	var active entity.ActiveSession
	err := r.db.QueryRow(ctx, activeSessionQuery, token).Scan(
		&active.ID, &active.UserID, &active.Token,
		&active.UserAgent, &active.IPAddress,
		&active.ExpiresAt, &active.CreatedAt,
		&active.Username, &active.IsAdmin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Session lookup failed", zap.Error(err))
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	return &active, nil
}

// Revoke only matches a session owned by userID.
func (r *sessionRepository) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked_at = NOW()
		WHERE token = $1 AND user_id = $2 AND revoked_at IS NULL`,
		token, userID,
	)
	if err != nil {
		r.log.Error("Session revoke failed", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("revoke session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("revoke session: %w", ErrNoRows)
	}
	return nil
}

func (r *sessionRepository) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	)
	if err != nil {
		r.log.Error("Session revoke-all failed", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

// Purge deletes sessions that expired or were revoked before the cutoff.
func (r *sessionRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < $1 OR revoked_at < $1`,
		before,
	)
	if err != nil {
		r.log.Error("Session purge failed", zap.Error(err))
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
