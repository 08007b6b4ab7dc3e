package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/app/services"
	"github.com/unicen/alumni-registry/internal/middleware"
)

// AdminController handles administrator account operations
type AdminController struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// Create registers a new administrator
// @Summary Create an administrator
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdminRequest true "Administrator information"
// @Success 201 {object} dto.APIResponse{data=dto.CreateAdminResponse} "Administrator created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /admins [post]
func (c *AdminController) Create(ctx *gin.Context) {
	var req dto.CreateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	response, err := c.adminService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: response})
}

// UpdatePassword changes an administrator's password
// @Summary Change administrator password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Administrator ID"
// @Param request body dto.UpdateAdminPasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Current password incorrect"
// @Failure 404 {object} dto.ErrorResponse "Administrator not found"
// @Router /admins/{id}/password [put]
func (c *AdminController) UpdatePassword(ctx *gin.Context) {
	id, ok := parseAdminIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateAdminPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.adminService.UpdatePassword(ctx.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Password updated"}})
}

// Delete removes an administrator account
// @Summary Delete an administrator
// @Description Removes an administrator. The last remaining account cannot be deleted.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Administrator ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Administrator deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or last administrator"
// @Failure 404 {object} dto.ErrorResponse "Administrator not found"
// @Router /admins/{id} [delete]
func (c *AdminController) Delete(ctx *gin.Context) {
	id, ok := parseAdminIDParam(ctx)
	if !ok {
		return
	}

	if err := c.adminService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Administrator deleted"}})
}

// Stats returns dashboard statistics
// @Summary Dashboard statistics
// @Description Registry-wide counters: total graduates, countries, careers and pending reviews
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats} "Statistics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admins/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats})
}

func parseAdminIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid administrator ID").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}
