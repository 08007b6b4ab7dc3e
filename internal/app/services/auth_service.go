package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/app/repositories"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
	"github.com/unicen/alumni-registry/internal/pkg/email"
)

// AuthService handles authentication for graduates and administrators
type AuthService struct {
	graduateRepo repositories.IGraduateRepository
	adminRepo    repositories.IAdministratorRepository
	tokenRepo    repositories.ISessionTokenRepository
	jwtService   *auth.JWTService
	mailer       email.Mailer
	frontendURL  string
	tokenTTL     time.Duration
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	graduateRepo repositories.IGraduateRepository,
	adminRepo repositories.IAdministratorRepository,
	tokenRepo repositories.ISessionTokenRepository,
	jwtService *auth.JWTService,
	mailer email.Mailer,
	frontendURL string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		graduateRepo: graduateRepo,
		adminRepo:    adminRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		mailer:       mailer,
		frontendURL:  frontendURL,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// LoginGraduate authenticates a graduate and issues a bearer token. The
// token is also recorded as a session so logout can revoke it.
func (s *AuthService) LoginGraduate(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	graduate, err := s.graduateRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrGraduateNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(graduate.Password, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(graduate.ID, graduate.Email, models.PrincipalGraduate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, graduate.ID, token, time.Now().Add(s.tokenTTL)); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("graduateID", graduate.ID).Msg("Graduate logged in")

	return &dto.LoginResponse{
		Token:   token,
		Profile: graduate,
	}, nil
}

// LoginAdmin authenticates an administrator and issues a bearer token
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(admin.Password, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(admin.ID, admin.Email, models.PrincipalAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().Int64("adminID", admin.ID).Msg("Administrator logged in")

	return &dto.LoginResponse{
		Token:   token,
		Profile: admin,
	}, nil
}

// Logout revokes a graduate session token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokenRepo.Delete(ctx, token); err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			// Already revoked or expired, logout is idempotent
			return nil
		}
		return err
	}
	return nil
}

// VerifyToken checks whether a bearer token is still valid. Invalid tokens
// are a negative answer, not an error.
func (s *AuthService) VerifyToken(token string) *dto.VerifyTokenResponse {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return &dto.VerifyTokenResponse{Valid: false}
	}

	return &dto.VerifyTokenResponse{
		Valid:     true,
		Principal: string(claims.Principal),
		SubjectID: claims.SubjectID,
	}
}

// ForgotPassword sends a password reset link to a graduate. Unknown emails
// are reported as success so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	graduate, err := s.graduateRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrGraduateNotFound) {
			s.logger.Info().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	resetToken, err := s.jwtService.GenerateResetToken(graduate.ID, graduate.Email)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, resetToken)

	// The reset email is the only channel for this flow, so a send failure
	// is a real failure, unlike the courtesy notifications.
	if err := s.mailer.SendPasswordResetEmail(graduate.Email, graduate.FullName(), resetURL); err != nil {
		s.logger.Error().Err(err).Int64("graduateID", graduate.ID).Msg("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

// ResetPassword sets a new password from a valid reset token and revokes
// every open session of the graduate
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	graduateID, err := s.jwtService.ValidateResetToken(token)
	if err != nil {
		return apperrors.ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.graduateRepo.UpdatePassword(ctx, graduateID, hash); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteByGraduate(ctx, graduateID); err != nil {
		s.logger.Warn().Err(err).Int64("graduateID", graduateID).Msg("Failed to revoke sessions after password reset")
	}

	s.logger.Info().Int64("graduateID", graduateID).Msg("Password reset completed")
	return nil
}

// CleanupExpiredTokens removes expired session tokens
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.CleanupExpired(ctx)
}
