package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/logger"
)

// ISessionTokenRepository defines the interface for session token operations
type ISessionTokenRepository interface {
	Create(ctx context.Context, graduateID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.SessionToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByGraduate(ctx context.Context, graduateID int64) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// SessionTokenRepository handles session token database operations
type SessionTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionTokenRepository creates a new SessionTokenRepository
func NewSessionTokenRepository(db *pgxpool.Pool) *SessionTokenRepository {
	return &SessionTokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a session token for a graduate
func (r *SessionTokenRepository) Create(ctx context.Context, graduateID int64, token string, expiresAt time.Time) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("session_tokens").
		Columns("graduate_id", "token", "expires_at", "created_at", "updated_at").
		Values(graduateID, token, expiresAt, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("graduateID", graduateID).Msg("Error storing session token")
		return fmt.Errorf("error creating session token: %w", err)
	}

	return nil
}

// GetByToken retrieves a session token record by its value. Expired tokens
// are returned as ErrTokenExpired so callers can distinguish them from
// tokens that never existed.
func (r *SessionTokenRepository) GetByToken(ctx context.Context, token string) (*models.SessionToken, error) {
	sql, args, err := r.sb.Select("id", "graduate_id", "token", "expires_at", "created_at", "updated_at").
		From("session_tokens").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session token query: %w", err)
	}

	st := &models.SessionToken{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&st.ID, &st.GraduateID, &st.Token, &st.ExpiresAt, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving session token: %w", err)
	}

	if st.Expired() {
		return nil, apperrors.ErrTokenExpired
	}

	return st, nil
}

// Delete removes a session token, typically on logout
func (r *SessionTokenRepository) Delete(ctx context.Context, token string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM session_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error deleting session token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// DeleteByGraduate removes all session tokens belonging to a graduate
func (r *SessionTokenRepository) DeleteByGraduate(ctx context.Context, graduateID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_tokens WHERE graduate_id = $1`, graduateID); err != nil {
		return fmt.Errorf("error deleting graduate session tokens: %w", err)
	}
	return nil
}

// CleanupExpired removes all expired session tokens and reports how many
func (r *SessionTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM session_tokens WHERE expires_at < $1`, time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("Error cleaning up expired session tokens")
		return 0, fmt.Errorf("error cleaning up expired session tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
