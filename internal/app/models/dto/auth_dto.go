package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful authentication response
type LoginResponse struct {
	Token   string      `json:"token"`
	Profile interface{} `json:"profile"`
}

// VerifyTokenRequest represents a token validity check
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyTokenResponse reports the outcome of a token validity check
type VerifyTokenResponse struct {
	Valid     bool   `json:"valid"`
	Principal string `json:"principal,omitempty"`
	SubjectID int64  `json:"subjectId,omitempty"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the reset token and the new password
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
