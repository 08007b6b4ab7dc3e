package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
)

type adminServiceFixture struct {
	admins    *fakeAdminRepo
	graduates *fakeGraduateRepo
	service   *AdminService
}

func newAdminServiceFixture() *adminServiceFixture {
	f := &adminServiceFixture{
		admins:    newFakeAdminRepo(),
		graduates: newFakeGraduateRepo(),
	}
	f.service = NewAdminService(f.admins, f.graduates, zerolog.Nop())
	return f
}

func (f *adminServiceFixture) addAdmin(t *testing.T, email, password string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	id, err := f.admins.Create(context.Background(), &models.Administrator{
		FirstName: "Root", LastName: "Admin", Email: email, Password: hash,
	})
	require.NoError(t, err)
	return id
}

func TestCreateAdminHashesPassword(t *testing.T) {
	f := newAdminServiceFixture()

	resp, err := f.service.Create(context.Background(), &dto.CreateAdminRequest{
		FirstName: "Laura",
		LastName:  "Gimenez",
		Email:     "laura@example.com",
		Password:  "s3cure-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "laura@example.com", resp.Email)
	assert.Equal(t, "Laura", resp.FirstName)

	stored, err := f.admins.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cure-pass", stored.Password)
	assert.NoError(t, auth.CheckPassword(stored.Password, "s3cure-pass"))
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	f := newAdminServiceFixture()
	f.addAdmin(t, "laura@example.com", "s3cure-pass")

	_, err := f.service.Create(context.Background(), &dto.CreateAdminRequest{
		FirstName: "Laura",
		LastName:  "Gimenez",
		Email:     "laura@example.com",
		Password:  "s3cure-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrAdminAlreadyExists)
}

func TestUpdateAdminPassword(t *testing.T) {
	f := newAdminServiceFixture()
	id := f.addAdmin(t, "laura@example.com", "old-pass-word")

	err := f.service.UpdatePassword(context.Background(), id, "old-pass-word", "new-pass-word")
	require.NoError(t, err)

	stored, err := f.admins.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(stored.Password, "new-pass-word"))
}

func TestUpdateAdminPasswordWrongCurrent(t *testing.T) {
	f := newAdminServiceFixture()
	id := f.addAdmin(t, "laura@example.com", "old-pass-word")

	err := f.service.UpdatePassword(context.Background(), id, "guess", "new-pass-word")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	stored, err := f.admins.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(stored.Password, "old-pass-word"))
}

func TestDeleteAdminKeepsLastOne(t *testing.T) {
	f := newAdminServiceFixture()
	only := f.addAdmin(t, "laura@example.com", "s3cure-pass")

	err := f.service.Delete(context.Background(), only)
	require.Error(t, err)

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)

	// Still there
	_, err = f.admins.GetByID(context.Background(), only)
	assert.NoError(t, err)

	second := f.addAdmin(t, "pedro@example.com", "s3cure-pass")
	require.NoError(t, f.service.Delete(context.Background(), second))
}

func TestAdminStats(t *testing.T) {
	f := newAdminServiceFixture()

	approved := pendingGraduate()
	approved.Status = models.StatusApproved
	f.graduates.put(approved)

	abroad := pendingGraduate()
	abroad.Email = "bruno@example.com"
	abroad.Country = "Spain"
	abroad.Career = "Systems Engineering"
	f.graduates.put(abroad)

	pending := pendingGraduate()
	pending.Email = "carla@example.com"
	pending.Career = "Mathematics"
	f.graduates.put(pending)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalGraduates)
	assert.Equal(t, int64(2), stats.TotalCountries)
	assert.Equal(t, int64(2), stats.TotalCareers)
	assert.Equal(t, int64(2), stats.PendingReviews)
}
