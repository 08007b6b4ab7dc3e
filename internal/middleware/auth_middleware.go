package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/app/repositories"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextSubjectID = "subjectID"
	ContextEmail     = "email"
	ContextPrincipal = "principal"
	ContextToken     = "token"
)

// AuthMiddleware handles authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	tokenRepo  repositories.ISessionTokenRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, tokenRepo repositories.ISessionTokenRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
	}
}

// JWTAuth validates the bearer token and resolves its principal once.
// Handlers downstream read the principal from the context and never
// re-derive it. Graduate tokens are additionally checked against the
// session store so logout revokes them immediately.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}

			detail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		if claims.Principal == models.PrincipalGraduate {
			if _, err := m.tokenRepo.GetByToken(c.Request.Context(), tokenString); err != nil {
				if errors.Is(err, apperrors.ErrTokenNotFound) || errors.Is(err, apperrors.ErrTokenExpired) {
					detail := dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication failed").
						WithDetails("Session has been revoked")
					c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
					return
				}
				detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
				return
			}
		}

		c.Set(ContextSubjectID, claims.SubjectID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextPrincipal, claims.Principal)
		c.Set(ContextToken, tokenString)

		c.Next()
	}
}

// AdminRequired rejects requests whose principal is not an administrator
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return principalRequired(models.PrincipalAdmin)
}

// GraduateRequired rejects requests whose principal is not a graduate
func (m *AuthMiddleware) GraduateRequired() gin.HandlerFunc {
	return principalRequired(models.PrincipalGraduate)
}

func principalRequired(required models.PrincipalType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := c.Get(ContextPrincipal)
		if !exists {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		if p, ok := principal.(models.PrincipalType); !ok || p != required {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}

		c.Next()
	}
}

// SubjectID reads the authenticated principal's id from the context
func SubjectID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextSubjectID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// BearerToken reads the raw bearer token from the context
func BearerToken(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextToken)
	if !exists {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}
