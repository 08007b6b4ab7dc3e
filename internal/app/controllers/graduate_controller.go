package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/app/services"
	"github.com/unicen/alumni-registry/internal/middleware"
)

// maxPhotoSize limits profile photo uploads to 5MB
const maxPhotoSize = 5 << 20

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// GraduateController handles graduate related operations
type GraduateController struct {
	graduateService *services.GraduateService
	logger          zerolog.Logger
}

// NewGraduateController creates a new GraduateController
func NewGraduateController(graduateService *services.GraduateService, logger zerolog.Logger) *GraduateController {
	return &GraduateController{
		graduateService: graduateService,
		logger:          logger,
	}
}

// Register handles graduate self-registration
// @Summary Register a new graduate
// @Description Creates a graduate profile in pending status, awaiting administrator review
// @Tags graduates
// @Accept json
// @Produce json
// @Param request body dto.RegisterGraduateRequest true "Graduate registration information"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterGraduateResponse} "Registration received"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /graduates/register [post]
func (c *GraduateController) Register(ctx *gin.Context) {
	var req dto.RegisterGraduateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	response, err := c.graduateService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: response})
}

// GetMap returns the public alumni map
// @Summary Get the alumni map
// @Description Lists approved graduates that have resolved coordinates
// @Tags graduates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.MapGraduate} "Map entries"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /graduates/map [get]
func (c *GraduateController) GetMap(ctx *gin.Context) {
	graduates, err := c.graduateService.GetMapGraduates(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduates})
}

// GetProfile returns the authenticated graduate's profile
// @Summary Get own profile
// @Tags graduates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/profile [get]
func (c *GraduateController) GetProfile(ctx *gin.Context) {
	id, ok := middleware.SubjectID(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	graduate, err := c.graduateService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduate})
}

// UpdateProfile updates the authenticated graduate's profile
// @Summary Update own profile
// @Tags graduates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or coordinates"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/profile [put]
func (c *GraduateController) UpdateProfile(ctx *gin.Context) {
	id, ok := middleware.SubjectID(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	graduate, err := c.graduateService.UpdateProfile(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduate})
}

// DeleteProfile removes the authenticated graduate's account
// @Summary Delete own account
// @Tags graduates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Account deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/profile [delete]
func (c *GraduateController) DeleteProfile(ctx *gin.Context) {
	id, ok := middleware.SubjectID(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	if err := c.graduateService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Account deleted"}})
}

// UploadPhoto stores a new profile photo
// @Summary Upload profile photo
// @Description Accepts a jpg, jpeg, png or gif up to 5MB
// @Tags graduates
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.PhotoUploadResponse} "Stored photo path"
// @Failure 400 {object} dto.ErrorResponse "Missing, oversized or unsupported file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /graduates/profile/photo [post]
func (c *GraduateController) UploadPhoto(ctx *gin.Context) {
	id, ok := middleware.SubjectID(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Photo file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	if fileHeader.Size > maxPhotoSize {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Photo must not exceed 5MB")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExtensions[ext] {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Photo must be a jpg, jpeg, png or gif")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	photoURL, err := c.graduateService.UploadPhoto(ctx.Request.Context(), id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.PhotoUploadResponse{PhotoURL: photoURL}})
}

// List returns all graduates for administration
// @Summary List graduates
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Graduate} "All graduates"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /graduates [get]
func (c *GraduateController) List(ctx *gin.Context) {
	graduates, err := c.graduateService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduates})
}

// GetByID returns a single graduate for administration
// @Summary Get a graduate
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Graduate"
// @Failure 400 {object} dto.ErrorResponse "Invalid graduate ID"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/{id} [get]
func (c *GraduateController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	graduate, err := c.graduateService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduate})
}

// Update updates any graduate's profile as an administrator
// @Summary Update a graduate
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduate ID"
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Updated graduate"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or coordinates"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/{id} [put]
func (c *GraduateController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	graduate, err := c.graduateService.UpdateProfile(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduate})
}

// UpdateStatus applies a moderation decision to a graduate
// @Summary Approve or reject a graduate
// @Description Applies the decision, geocodes newly approved graduates and notifies them by email
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduate ID"
// @Param request body dto.UpdateStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Graduate} "Graduate after the decision"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or status"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/{id}/status [put]
func (c *GraduateController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	graduate, err := c.graduateService.UpdateStatus(ctx.Request.Context(), id, models.GraduateStatus(req.Status), req.Observations)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: graduate})
}

// Delete removes a graduate as an administrator
// @Summary Delete a graduate
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Graduate ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Graduate deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid graduate ID"
// @Failure 404 {object} dto.ErrorResponse "Graduate not found"
// @Router /graduates/{id} [delete]
func (c *GraduateController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.graduateService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Graduate deleted"}})
}

func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid graduate ID").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}
