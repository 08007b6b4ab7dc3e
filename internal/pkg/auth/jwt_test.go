package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicen/alumni-registry/internal/app/models"
)

func testJWTService(tokenExpiry time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:     "test-secret",
		TokenExpiry:   tokenExpiry,
		ResetTokenExp: time.Hour,
		TokenIssuer:   "test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testJWTService(time.Hour)

	token, err := svc.GenerateToken(42, "ana@example.com", models.PrincipalGraduate)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, models.PrincipalGraduate, claims.Principal)
	assert.Empty(t, claims.Purpose)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testJWTService(-time.Minute)

	token, err := svc.GenerateToken(42, "ana@example.com", models.PrincipalGraduate)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := testJWTService(time.Hour).GenerateToken(42, "ana@example.com", models.PrincipalAdmin)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:   "a-different-secret",
		TokenExpiry: time.Hour,
		TokenIssuer: "test",
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := testJWTService(time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := testJWTService(time.Hour)

	token, err := svc.GenerateResetToken(7, "ana@example.com")
	require.NoError(t, err)

	id, err := svc.ValidateResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestValidateResetTokenRejectsBearerToken(t *testing.T) {
	svc := testJWTService(time.Hour)

	token, err := svc.GenerateToken(7, "ana@example.com", models.PrincipalGraduate)
	require.NoError(t, err)

	_, err = svc.ValidateResetToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
