package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/app/repositories"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
)

// AdminService handles administrator accounts and dashboard statistics
type AdminService struct {
	adminRepo    repositories.IAdministratorRepository
	graduateRepo repositories.IGraduateRepository
	logger       zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	adminRepo repositories.IAdministratorRepository,
	graduateRepo repositories.IGraduateRepository,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		adminRepo:    adminRepo,
		graduateRepo: graduateRepo,
		logger:       logger,
	}
}

// Create registers a new administrator account
func (s *AdminService) Create(ctx context.Context, req *dto.CreateAdminRequest) (*dto.CreateAdminResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Administrator{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hash,
	}

	id, err := s.adminRepo.Create(ctx, admin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", id).Str("email", req.Email).Msg("Administrator created")

	return &dto.CreateAdminResponse{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}, nil
}

// UpdatePassword changes an administrator's password after verifying the
// current one
func (s *AdminService) UpdatePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.CheckPassword(admin.Password, currentPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.logger.Info().Int64("adminID", id).Msg("Administrator password updated")
	return nil
}

// Delete removes an administrator. The last remaining account cannot be
// deleted, the system must always have one.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apperrors.NewBadRequestError("cannot delete the last administrator")
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("adminID", id).Msg("Administrator deleted")
	return nil
}

// Stats computes the dashboard statistics
func (s *AdminService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	total, err := s.graduateRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	countries, err := s.graduateRepo.CountDistinct(ctx, "country")
	if err != nil {
		return nil, err
	}

	careers, err := s.graduateRepo.CountDistinct(ctx, "career")
	if err != nil {
		return nil, err
	}

	pending, err := s.graduateRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TotalGraduates: total,
		TotalCountries: countries,
		TotalCareers:   careers,
		PendingReviews: pending,
	}, nil
}
