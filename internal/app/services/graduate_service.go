package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/app/repositories"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
	"github.com/unicen/alumni-registry/internal/pkg/besteffort"
	"github.com/unicen/alumni-registry/internal/pkg/email"
	"github.com/unicen/alumni-registry/internal/pkg/filestorage"
	"github.com/unicen/alumni-registry/internal/pkg/geocode"
)

// LocationBroadcaster pushes location updates to map subscribers
type LocationBroadcaster interface {
	PublishLocationChange(id int64, latitude, longitude float64)
}

// GraduateService handles graduate registration, profiles and moderation
type GraduateService struct {
	graduateRepo repositories.IGraduateRepository
	tokenRepo    repositories.ISessionTokenRepository
	geocoder     geocode.Resolver
	mailer       email.Mailer
	broadcaster  LocationBroadcaster
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewGraduateService creates a new GraduateService
func NewGraduateService(
	graduateRepo repositories.IGraduateRepository,
	tokenRepo repositories.ISessionTokenRepository,
	geocoder geocode.Resolver,
	mailer email.Mailer,
	broadcaster LocationBroadcaster,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *GraduateService {
	return &GraduateService{
		graduateRepo: graduateRepo,
		tokenRepo:    tokenRepo,
		geocoder:     geocoder,
		mailer:       mailer,
		broadcaster:  broadcaster,
		storage:      storage,
		logger:       logger,
	}
}

// Register creates a new graduate in pending status and sends a
// confirmation email. The email is best-effort; registration succeeds
// regardless.
func (s *GraduateService) Register(ctx context.Context, req *dto.RegisterGraduateRequest) (*dto.RegisterGraduateResponse, error) {
	if err := validateCategories(req.PracticeArea, req.WorkSector); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	graduate := &models.Graduate{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Email:                req.Email,
		Password:             hash,
		Career:               req.Career,
		GraduationYear:       req.GraduationYear,
		City:                 req.City,
		Country:              req.Country,
		Institution:          req.Institution,
		Workplace:            req.Workplace,
		PracticeArea:         req.PracticeArea,
		WorkSector:           req.WorkSector,
		UniversityAffiliated: req.UniversityAffiliated,
		AffiliationAreas:     req.AffiliationAreas,
		ProjectInterest:      req.ProjectInterest,
		Biography:            req.Biography,
		LinkedInURL:          req.LinkedInURL,
		Status:               models.StatusPending,
	}

	id, err := s.graduateRepo.Create(ctx, graduate)
	if err != nil {
		return nil, err
	}

	besteffort.Run(s.logger, "send registration email", func() error {
		return s.mailer.SendRegistrationEmail(req.Email, req.FirstName+" "+req.LastName)
	})

	s.logger.Info().Int64("graduateID", id).Str("email", req.Email).Msg("Graduate registered")

	return &dto.RegisterGraduateResponse{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}, nil
}

// GetByID retrieves a single graduate
func (s *GraduateService) GetByID(ctx context.Context, id int64) (*models.Graduate, error) {
	return s.graduateRepo.GetByID(ctx, id)
}

// GetAll retrieves every graduate for the administration listing
func (s *GraduateService) GetAll(ctx context.Context) ([]*models.Graduate, error) {
	return s.graduateRepo.GetAll(ctx)
}

// GetMapGraduates returns the public map projection: approved graduates
// with coordinates
func (s *GraduateService) GetMapGraduates(ctx context.Context) ([]dto.MapGraduate, error) {
	graduates, err := s.graduateRepo.GetApprovedWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.MapGraduate, 0, len(graduates))
	for _, g := range graduates {
		result = append(result, dto.NewMapGraduate(g))
	}
	return result, nil
}

// UpdateProfile applies a profile update. Coordinates must come as a pair
// and stay within range; a changed position of an approved graduate is
// pushed to map subscribers.
func (s *GraduateService) UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileRequest) (*models.Graduate, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	if err := validateCategories(req.PracticeArea, req.WorkSector); err != nil {
		return nil, err
	}

	graduate, err := s.graduateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	priorLat, priorLon := graduate.Latitude, graduate.Longitude

	graduate.FirstName = req.FirstName
	graduate.LastName = req.LastName
	graduate.Email = req.Email
	graduate.Career = req.Career
	graduate.GraduationYear = req.GraduationYear
	graduate.City = req.City
	graduate.Country = req.Country
	graduate.Institution = req.Institution
	graduate.Workplace = req.Workplace
	graduate.PracticeArea = req.PracticeArea
	graduate.WorkSector = req.WorkSector
	graduate.UniversityAffiliated = req.UniversityAffiliated
	graduate.AffiliationAreas = req.AffiliationAreas
	graduate.ProjectInterest = req.ProjectInterest
	graduate.Biography = req.Biography
	graduate.LinkedInURL = req.LinkedInURL
	if req.Latitude != nil && req.Longitude != nil {
		graduate.Latitude = req.Latitude
		graduate.Longitude = req.Longitude
	}

	if err := s.graduateRepo.Update(ctx, graduate); err != nil {
		return nil, err
	}

	updated, err := s.graduateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updated.Status == models.StatusApproved && coordinatesChanged(priorLat, priorLon, updated.Latitude, updated.Longitude) {
		s.broadcaster.PublishLocationChange(updated.ID, *updated.Latitude, *updated.Longitude)
	}

	return updated, nil
}

// UpdateStatus applies a moderation decision. Approving a graduate without
// coordinates triggers geocoding with progressively coarser queries; the
// decision, observations and any resolved coordinates are persisted in a
// single write. Notification email and map broadcast are best-effort.
func (s *GraduateService) UpdateStatus(ctx context.Context, id int64, status models.GraduateStatus, observations *string) (*models.Graduate, error) {
	if !status.IsValid() || status == models.StatusPending {
		return nil, apperrors.ErrInvalidStatus
	}

	graduate, err := s.graduateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	priorLat, priorLon := graduate.Latitude, graduate.Longitude

	var lat, lon *float64
	if status == models.StatusApproved && !graduate.HasCoordinates() {
		if coords, ok := s.resolveLocation(ctx, graduate); ok {
			lat, lon = &coords.Latitude, &coords.Longitude
		}
	}

	if err := s.graduateRepo.UpdateStatus(ctx, id, status, observations, lat, lon); err != nil {
		return nil, err
	}

	updated, err := s.graduateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.StatusApproved:
		besteffort.Run(s.logger, "send approval email", func() error {
			return s.mailer.SendApprovalEmail(updated.Email, updated.FullName())
		})
	case models.StatusRejected:
		reason := ""
		if observations != nil {
			reason = *observations
		}
		besteffort.Run(s.logger, "send rejection email", func() error {
			return s.mailer.SendRejectionEmail(updated.Email, updated.FullName(), reason)
		})
	}

	if coordinatesChanged(priorLat, priorLon, updated.Latitude, updated.Longitude) {
		s.broadcaster.PublishLocationChange(updated.ID, *updated.Latitude, *updated.Longitude)
	}

	s.logger.Info().
		Int64("graduateID", id).
		Str("status", string(status)).
		Msg("Graduate status updated")

	return updated, nil
}

// resolveLocation tries progressively coarser queries until one resolves.
// The most specific query includes the institution when the graduate
// provided one.
func (s *GraduateService) resolveLocation(ctx context.Context, g *models.Graduate) (geocode.Coordinates, bool) {
	queries := make([]string, 0, 4)
	if g.Institution != nil && *g.Institution != "" {
		queries = append(queries, fmt.Sprintf("%s, %s, %s", *g.Institution, g.City, g.Country))
	}
	queries = append(queries,
		fmt.Sprintf("%s, %s", g.City, g.Country),
		g.City,
		g.Country,
	)

	for _, query := range queries {
		if coords, ok := s.geocoder.Resolve(ctx, query); ok {
			return coords, true
		}
	}

	s.logger.Warn().Int64("graduateID", g.ID).Str("city", g.City).Str("country", g.Country).
		Msg("Location could not be resolved, approving without coordinates")
	return geocode.Coordinates{}, false
}

// Delete removes a graduate along with their sessions and stored photo
func (s *GraduateService) Delete(ctx context.Context, id int64) error {
	graduate, err := s.graduateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteByGraduate(ctx, id); err != nil {
		return err
	}

	if err := s.graduateRepo.Delete(ctx, id); err != nil {
		return err
	}

	if graduate.PhotoURL != nil {
		besteffort.Run(s.logger, "delete profile photo", func() error {
			return s.storage.DeleteFile(*graduate.PhotoURL)
		})
	}

	s.logger.Info().Int64("graduateID", id).Msg("Graduate deleted")
	return nil
}

// UploadPhoto stores a new profile photo, replacing any previous one
func (s *GraduateService) UploadPhoto(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (string, error) {
	graduate, err := s.graduateRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	photoURL, err := s.storage.SaveFileWithPath(fileHeader, "photos")
	if err != nil {
		return "", fmt.Errorf("failed to store profile photo: %w", err)
	}

	if err := s.graduateRepo.UpdatePhotoURL(ctx, id, photoURL); err != nil {
		return "", err
	}

	if graduate.PhotoURL != nil {
		besteffort.Run(s.logger, "delete previous profile photo", func() error {
			return s.storage.DeleteFile(*graduate.PhotoURL)
		})
	}

	return photoURL, nil
}

func validateCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return apperrors.ErrInvalidCoordinates
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return apperrors.ErrInvalidCoordinates
	}
	return nil
}

func validateCategories(practiceArea, workSector *string) error {
	if practiceArea != nil && *practiceArea != "" && !models.PracticeArea(*practiceArea).IsValid() {
		return apperrors.NewBadRequestError("unknown practice area")
	}
	if workSector != nil && *workSector != "" && !models.WorkSector(*workSector).IsValid() {
		return apperrors.NewBadRequestError("unknown work sector")
	}
	return nil
}

func coordinatesChanged(priorLat, priorLon, lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	if priorLat == nil || priorLon == nil {
		return true
	}
	return *priorLat != *lat || *priorLon != *lon
}
