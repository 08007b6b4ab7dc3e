package dto

// CreateAdminRequest represents an administrator creation request
type CreateAdminRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// CreateAdminResponse is the confirmation payload for a created administrator
type CreateAdminResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UpdateAdminPasswordRequest represents an administrator password change
type UpdateAdminPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// DashboardStats aggregates registry-wide counters for the admin dashboard
type DashboardStats struct {
	TotalGraduates int64 `json:"totalGraduates"`
	TotalCountries int64 `json:"totalCountries"`
	TotalCareers   int64 `json:"totalCareers"`
	PendingReviews int64 `json:"pendingReviews"`
}
