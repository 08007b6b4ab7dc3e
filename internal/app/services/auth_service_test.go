package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
)

// fakeAdminRepo is an in-memory IAdministratorRepository
type fakeAdminRepo struct {
	admins map[int64]*models.Administrator
	nextID int64
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[int64]*models.Administrator), nextID: 1}
}

func (r *fakeAdminRepo) Create(ctx context.Context, a *models.Administrator) (int64, error) {
	for _, existing := range r.admins {
		if existing.Email == a.Email {
			return 0, apperrors.ErrAdminAlreadyExists
		}
	}
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.admins[a.ID] = &cp
	return a.ID, nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id int64) (*models.Administrator, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

func (r *fakeAdminRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	a, ok := r.admins[id]
	if !ok {
		return apperrors.ErrAdminNotFound
	}
	a.Password = hash
	return nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.admins[id]; !ok {
		return apperrors.ErrAdminNotFound
	}
	delete(r.admins, id)
	return nil
}

func (r *fakeAdminRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.admins)), nil
}

type authServiceFixture struct {
	graduates *fakeGraduateRepo
	admins    *fakeAdminRepo
	tokens    *fakeSessionTokenRepo
	mailer    *fakeMailer
	jwt       *auth.JWTService
	service   *AuthService
}

func newAuthServiceFixture(t *testing.T) *authServiceFixture {
	t.Helper()

	f := &authServiceFixture{
		graduates: newFakeGraduateRepo(),
		admins:    newFakeAdminRepo(),
		tokens:    newFakeSessionTokenRepo(),
		mailer:    &fakeMailer{},
	}
	f.jwt = auth.NewJWTService(auth.JWTConfig{
		SecretKey:     "test-secret",
		TokenExpiry:   time.Hour,
		ResetTokenExp: time.Hour,
		TokenIssuer:   "test",
	})
	f.service = NewAuthService(f.graduates, f.admins, f.tokens, f.jwt, f.mailer,
		"https://alumni.example.com", time.Hour, zerolog.Nop())
	return f
}

func (f *authServiceFixture) addGraduate(t *testing.T, email, password string) *models.Graduate {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	g := pendingGraduate()
	g.Email = email
	g.Password = hash
	return f.graduates.put(g)
}

func TestLoginGraduateStoresSession(t *testing.T) {
	f := newAuthServiceFixture(t)
	g := f.addGraduate(t, "ana@example.com", "secret-password")

	resp, err := f.service.LoginGraduate(context.Background(), "ana@example.com", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, g.ID, claims.SubjectID)
	assert.Equal(t, models.PrincipalGraduate, claims.Principal)

	st, err := f.tokens.GetByToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, g.ID, st.GraduateID)
}

func TestLoginGraduateWrongPassword(t *testing.T) {
	f := newAuthServiceFixture(t)
	f.addGraduate(t, "ana@example.com", "secret-password")

	_, err := f.service.LoginGraduate(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginGraduateUnknownEmail(t *testing.T) {
	f := newAuthServiceFixture(t)

	_, err := f.service.LoginGraduate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginAdminIssuesAdminPrincipal(t *testing.T) {
	f := newAuthServiceFixture(t)

	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)
	id, err := f.admins.Create(context.Background(), &models.Administrator{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com", Password: hash,
	})
	require.NoError(t, err)

	resp, err := f.service.LoginAdmin(context.Background(), "admin@example.com", "admin-password")
	require.NoError(t, err)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.SubjectID)
	assert.Equal(t, models.PrincipalAdmin, claims.Principal)

	// Administrators do not get session rows
	_, err = f.tokens.GetByToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newAuthServiceFixture(t)
	f.addGraduate(t, "ana@example.com", "secret-password")

	resp, err := f.service.LoginGraduate(context.Background(), "ana@example.com", "secret-password")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), resp.Token))

	_, err = f.tokens.GetByToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	// Logging out twice is fine
	assert.NoError(t, f.service.Logout(context.Background(), resp.Token))
}

func TestVerifyToken(t *testing.T) {
	f := newAuthServiceFixture(t)
	f.addGraduate(t, "ana@example.com", "secret-password")

	resp, err := f.service.LoginGraduate(context.Background(), "ana@example.com", "secret-password")
	require.NoError(t, err)

	result := f.service.VerifyToken(resp.Token)
	assert.True(t, result.Valid)
	assert.Equal(t, string(models.PrincipalGraduate), result.Principal)

	garbage := f.service.VerifyToken("not-a-token")
	assert.False(t, garbage.Valid)
	assert.Empty(t, garbage.Principal)
}

func TestForgotPasswordSendsResetLink(t *testing.T) {
	f := newAuthServiceFixture(t)
	f.addGraduate(t, "ana@example.com", "secret-password")

	require.NoError(t, f.service.ForgotPassword(context.Background(), "ana@example.com"))

	require.Len(t, f.mailer.resetURLs, 1)
	assert.True(t, strings.HasPrefix(f.mailer.resetURLs[0], "https://alumni.example.com/reset-password?token="))
}

func TestForgotPasswordMailFailureSurfaces(t *testing.T) {
	f := newAuthServiceFixture(t)
	f.addGraduate(t, "ana@example.com", "secret-password")
	f.mailer.fail = true

	err := f.service.ForgotPassword(context.Background(), "ana@example.com")
	require.Error(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthServiceFixture(t)

	assert.NoError(t, f.service.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, f.mailer.resetURLs)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newAuthServiceFixture(t)
	g := f.addGraduate(t, "ana@example.com", "old-password")

	// Open a session that the reset must revoke
	login, err := f.service.LoginGraduate(context.Background(), "ana@example.com", "old-password")
	require.NoError(t, err)

	resetToken, err := f.jwt.GenerateResetToken(g.ID, g.Email)
	require.NoError(t, err)

	require.NoError(t, f.service.ResetPassword(context.Background(), resetToken, "new-password"))

	_, err = f.service.LoginGraduate(context.Background(), "ana@example.com", "old-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.service.LoginGraduate(context.Background(), "ana@example.com", "new-password")
	assert.NoError(t, err)

	_, err = f.tokens.GetByToken(context.Background(), login.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestResetPasswordRejectsBearerToken(t *testing.T) {
	f := newAuthServiceFixture(t)
	g := f.addGraduate(t, "ana@example.com", "old-password")

	// A regular bearer token must not work as a reset token
	bearer, err := f.jwt.GenerateToken(g.ID, g.Email, models.PrincipalGraduate)
	require.NoError(t, err)

	err = f.service.ResetPassword(context.Background(), bearer, "new-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}
