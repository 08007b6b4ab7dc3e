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

// IGraduateRepository defines the interface for graduate database operations
type IGraduateRepository interface {
	Create(ctx context.Context, graduate *models.Graduate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Graduate, error)
	GetByEmail(ctx context.Context, email string) (*models.Graduate, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetAll(ctx context.Context) ([]*models.Graduate, error)
	GetApprovedWithCoordinates(ctx context.Context) ([]*models.Graduate, error)
	Update(ctx context.Context, graduate *models.Graduate) error
	UpdateStatus(ctx context.Context, id int64, status models.GraduateStatus, observations *string, latitude, longitude *float64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	CountDistinct(ctx context.Context, column string) (int64, error)
	CountByStatus(ctx context.Context, status models.GraduateStatus) (int64, error)
}

// GraduateRepository handles graduate database operations
type GraduateRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGraduateRepository creates a new GraduateRepository
func NewGraduateRepository(db *pgxpool.Pool) *GraduateRepository {
	return &GraduateRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var graduateColumns = []string{
	"id", "first_name", "last_name", "email", "password",
	"career", "graduation_year", "city", "country", "latitude", "longitude",
	"institution", "workplace", "practice_area", "work_sector",
	"university_affiliated", "affiliation_areas", "project_interest",
	"biography", "photo_url", "linkedin_url",
	"status", "admin_observations", "created_at", "updated_at",
}

func scanGraduate(row pgx.Row) (*models.Graduate, error) {
	g := &models.Graduate{}
	err := row.Scan(
		&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Password,
		&g.Career, &g.GraduationYear, &g.City, &g.Country, &g.Latitude, &g.Longitude,
		&g.Institution, &g.Workplace, &g.PracticeArea, &g.WorkSector,
		&g.UniversityAffiliated, &g.AffiliationAreas, &g.ProjectInterest,
		&g.Biography, &g.PhotoURL, &g.LinkedInURL,
		&g.Status, &g.AdminObservations, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new graduate and returns its assigned id
func (r *GraduateRepository) Create(ctx context.Context, graduate *models.Graduate) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("graduates").
		Columns("first_name", "last_name", "email", "password",
			"career", "graduation_year", "city", "country", "latitude", "longitude",
			"institution", "workplace", "practice_area", "work_sector",
			"university_affiliated", "affiliation_areas", "project_interest",
			"biography", "photo_url", "linkedin_url",
			"status", "admin_observations", "created_at", "updated_at").
		Values(graduate.FirstName, graduate.LastName, graduate.Email, graduate.Password,
			graduate.Career, graduate.GraduationYear, graduate.City, graduate.Country,
			graduate.Latitude, graduate.Longitude,
			graduate.Institution, graduate.Workplace, graduate.PracticeArea, graduate.WorkSector,
			graduate.UniversityAffiliated, graduate.AffiliationAreas, graduate.ProjectInterest,
			graduate.Biography, graduate.PhotoURL, graduate.LinkedInURL,
			graduate.Status, graduate.AdminObservations, now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create graduate SQL")
		return 0, fmt.Errorf("failed to build create graduate query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "graduates_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", graduate.Email).Msg("Error executing create graduate query")
		return 0, fmt.Errorf("error creating graduate: %w", err)
	}

	return id, nil
}

// GetByID retrieves a graduate by id
func (r *GraduateRepository) GetByID(ctx context.Context, id int64) (*models.Graduate, error) {
	sql, args, err := r.sb.Select(graduateColumns...).
		From("graduates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get graduate query: %w", err)
	}

	graduate, err := scanGraduate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGraduateNotFound
		}
		logger.Error().Err(err).Int64("graduateID", id).Msg("Error scanning graduate row")
		return nil, fmt.Errorf("error retrieving graduate: %w", err)
	}

	return graduate, nil
}

// GetByEmail retrieves a graduate by email
func (r *GraduateRepository) GetByEmail(ctx context.Context, email string) (*models.Graduate, error) {
	sql, args, err := r.sb.Select(graduateColumns...).
		From("graduates").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get graduate by email query: %w", err)
	}

	graduate, err := scanGraduate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGraduateNotFound
		}
		return nil, fmt.Errorf("error retrieving graduate by email: %w", err)
	}

	return graduate, nil
}

// EmailExists checks if an email is already registered
func (r *GraduateRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM graduates WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// GetAll retrieves all graduates ordered by creation time
func (r *GraduateRepository) GetAll(ctx context.Context) ([]*models.Graduate, error) {
	sql, args, err := r.sb.Select(graduateColumns...).
		From("graduates").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list graduates query: %w", err)
	}

	return r.queryGraduates(ctx, sql, args)
}

// GetApprovedWithCoordinates retrieves the graduates shown on the map:
// approved status and both coordinates present.
func (r *GraduateRepository) GetApprovedWithCoordinates(ctx context.Context) ([]*models.Graduate, error) {
	sql, args, err := r.sb.Select(graduateColumns...).
		From("graduates").
		Where(squirrel.Eq{"status": models.StatusApproved}).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build map graduates query: %w", err)
	}

	return r.queryGraduates(ctx, sql, args)
}

func (r *GraduateRepository) queryGraduates(ctx context.Context, sql string, args []interface{}) ([]*models.Graduate, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying graduates")
		return nil, fmt.Errorf("error querying graduates: %w", err)
	}
	defer rows.Close()

	var graduates []*models.Graduate
	for rows.Next() {
		graduate, err := scanGraduate(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning graduate row: %w", err)
		}
		graduates = append(graduates, graduate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graduate rows: %w", err)
	}

	return graduates, nil
}

// Update persists the mutable profile fields of a graduate
func (r *GraduateRepository) Update(ctx context.Context, graduate *models.Graduate) error {
	sql, args, err := r.sb.Update("graduates").
		Set("first_name", graduate.FirstName).
		Set("last_name", graduate.LastName).
		Set("email", graduate.Email).
		Set("career", graduate.Career).
		Set("graduation_year", graduate.GraduationYear).
		Set("city", graduate.City).
		Set("country", graduate.Country).
		Set("latitude", graduate.Latitude).
		Set("longitude", graduate.Longitude).
		Set("institution", graduate.Institution).
		Set("workplace", graduate.Workplace).
		Set("practice_area", graduate.PracticeArea).
		Set("work_sector", graduate.WorkSector).
		Set("university_affiliated", graduate.UniversityAffiliated).
		Set("affiliation_areas", graduate.AffiliationAreas).
		Set("project_interest", graduate.ProjectInterest).
		Set("biography", graduate.Biography).
		Set("linkedin_url", graduate.LinkedInURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": graduate.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update graduate query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "graduates_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("graduateID", graduate.ID).Msg("Error executing update graduate query")
		return fmt.Errorf("error updating graduate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}

	return nil
}

// UpdateStatus persists a moderation decision. Coordinates are only written
// when provided, so an update without a geocoding hit leaves them untouched.
func (r *GraduateRepository) UpdateStatus(ctx context.Context, id int64, status models.GraduateStatus, observations *string, latitude, longitude *float64) error {
	builder := r.sb.Update("graduates").
		Set("status", status).
		Set("admin_observations", observations).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})

	if latitude != nil && longitude != nil {
		builder = builder.Set("latitude", latitude).Set("longitude", longitude)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("graduateID", id).Msg("Error executing update status query")
		return fmt.Errorf("error updating graduate status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}

	return nil
}

// UpdatePassword replaces a graduate's password hash
func (r *GraduateRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE graduates SET password = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating graduate password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}
	return nil
}

// UpdatePhotoURL records the stored profile photo path
func (r *GraduateRepository) UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE graduates SET photo_url = $1, updated_at = $2 WHERE id = $3`,
		photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating graduate photo: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}
	return nil
}

// Delete removes a graduate row outright; session tokens cascade
func (r *GraduateRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM graduates WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("graduateID", id).Msg("Error executing delete graduate query")
		return fmt.Errorf("error deleting graduate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}
	return nil
}

// CountAll returns the total number of graduates
func (r *GraduateRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM graduates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting graduates: %w", err)
	}
	return count, nil
}

// CountDistinct returns the number of distinct values of a column. The
// column name comes from a fixed caller-side set, never from user input.
func (r *GraduateRepository) CountDistinct(ctx context.Context, column string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(DISTINCT %s) FROM graduates`, column)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting distinct %s: %w", column, err)
	}
	return count, nil
}

// CountByStatus returns the number of graduates in a given status
func (r *GraduateRepository) CountByStatus(ctx context.Context, status models.GraduateStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM graduates WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting graduates by status: %w", err)
	}
	return count, nil
}
