package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances for dependency injection
type Repositories struct {
	Graduates     *GraduateRepository
	Admins        *AdministratorRepository
	SessionTokens *SessionTokenRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Graduates:     NewGraduateRepository(db),
		Admins:        NewAdministratorRepository(db),
		SessionTokens: NewSessionTokenRepository(db),
	}
}
