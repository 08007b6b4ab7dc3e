package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/unicen/alumni-registry/internal/app/models"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

const resetPurpose = "password_reset"

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey     string
	TokenExpiry   time.Duration
	ResetTokenExp time.Duration
	TokenIssuer   string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Claims defines JWT token content. Principal carries whether the token
// belongs to an administrator or a graduate; handlers never re-derive it.
type Claims struct {
	SubjectID int64                `json:"subjectId"`
	Email     string               `json:"email"`
	Principal models.PrincipalType `json:"principal"`
	Purpose   string               `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed bearer token for the given principal
func (s *JWTService) GenerateToken(subjectID int64, email string, principal models.PrincipalType) (string, error) {
	return s.sign(subjectID, email, principal, "", s.config.TokenExpiry)
}

// GenerateResetToken creates a short-lived token for a password reset link
func (s *JWTService) GenerateResetToken(graduateID int64, email string) (string, error) {
	return s.sign(graduateID, email, models.PrincipalGraduate, resetPurpose, s.config.ResetTokenExp)
}

func (s *JWTService) sign(subjectID int64, email string, principal models.PrincipalType, purpose string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		SubjectID: subjectID,
		Email:     email,
		Principal: principal,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   fmt.Sprintf("%d", subjectID),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SubjectID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateResetToken validates a password reset token and returns the
// graduate id it was issued for
func (s *JWTService) ValidateResetToken(tokenString string) (int64, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.Purpose != resetPurpose {
		return 0, ErrInvalidToken
	}
	return claims.SubjectID, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return authHeader, nil
}
