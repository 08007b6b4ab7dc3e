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
	"github.com/unicen/alumni-registry/internal/pkg/dberrors"
	"github.com/unicen/alumni-registry/internal/pkg/logger"
)

// IAdministratorRepository defines the interface for administrator database operations
type IAdministratorRepository interface {
	Create(ctx context.Context, admin *models.Administrator) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Administrator, error)
	GetByEmail(ctx context.Context, email string) (*models.Administrator, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// AdministratorRepository handles administrator database operations
type AdministratorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdministratorRepository creates a new AdministratorRepository
func NewAdministratorRepository(db *pgxpool.Pool) *AdministratorRepository {
	return &AdministratorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var administratorColumns = []string{
	"id", "first_name", "last_name", "email", "password", "created_at", "updated_at",
}

func scanAdministrator(row pgx.Row) (*models.Administrator, error) {
	a := &models.Administrator{}
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Password, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new administrator and returns its assigned id
func (r *AdministratorRepository) Create(ctx context.Context, admin *models.Administrator) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("administrators").
		Columns("first_name", "last_name", "email", "password", "created_at", "updated_at").
		Values(admin.FirstName, admin.LastName, admin.Email, admin.Password, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create administrator query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "administrators_email_key") {
			return 0, apperrors.ErrAdminAlreadyExists
		}
		logger.Error().Err(err).Str("email", admin.Email).Msg("Error executing create administrator query")
		return 0, fmt.Errorf("error creating administrator: %w", err)
	}

	return id, nil
}

// GetByID retrieves an administrator by id
func (r *AdministratorRepository) GetByID(ctx context.Context, id int64) (*models.Administrator, error) {
	sql, args, err := r.sb.Select(administratorColumns...).
		From("administrators").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get administrator query: %w", err)
	}

	admin, err := scanAdministrator(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving administrator: %w", err)
	}

	return admin, nil
}

// GetByEmail retrieves an administrator by email
func (r *AdministratorRepository) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	sql, args, err := r.sb.Select(administratorColumns...).
		From("administrators").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get administrator by email query: %w", err)
	}

	admin, err := scanAdministrator(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving administrator by email: %w", err)
	}

	return admin, nil
}

// UpdatePassword replaces an administrator's password hash
func (r *AdministratorRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE administrators SET password = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating administrator password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Delete removes an administrator
func (r *AdministratorRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM administrators WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error executing delete administrator query")
		return fmt.Errorf("error deleting administrator: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Count returns the number of administrators
func (r *AdministratorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM administrators`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting administrators: %w", err)
	}
	return count, nil
}
