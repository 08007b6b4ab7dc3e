// Package seed creates the data the application needs on first start.
package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/repositories"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
)

const defaultAdminEmail = "admin@alumni.unicen.edu.ar"

// CreateDefaultAdmin ensures at least one administrator account exists so
// the registry can be managed right after deployment. The password comes
// from ADMIN_PASSWORD or falls back to a development default.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	adminRepo := repositories.NewAdministratorRepository(dbPool)

	count, err := adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin1234"
		lgr.Warn().Msg("ADMIN_PASSWORD not set, default administrator uses an insecure development password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Administrator{
		FirstName: "Default",
		LastName:  "Administrator",
		Email:     defaultAdminEmail,
		Password:  hash,
	}

	id, err := adminRepo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Int64("adminID", id).Str("email", defaultAdminEmail).Msg("Default administrator created")
	return nil
}
