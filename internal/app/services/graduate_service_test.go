package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/models/dto"
	"github.com/unicen/alumni-registry/internal/pkg/apperrors"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
	"github.com/unicen/alumni-registry/internal/pkg/geocode"
)

// fakeGraduateRepo is an in-memory IGraduateRepository
type fakeGraduateRepo struct {
	graduates   map[int64]*models.Graduate
	nextID      int64
	updateCalls int
	statusCalls int
	failUpdate  error
}

func newFakeGraduateRepo() *fakeGraduateRepo {
	return &fakeGraduateRepo{graduates: make(map[int64]*models.Graduate), nextID: 1}
}

func (r *fakeGraduateRepo) put(g *models.Graduate) *models.Graduate {
	if g.ID == 0 {
		g.ID = r.nextID
		r.nextID++
	}
	cp := *g
	r.graduates[g.ID] = &cp
	return r.graduates[g.ID]
}

func (r *fakeGraduateRepo) Create(ctx context.Context, g *models.Graduate) (int64, error) {
	for _, existing := range r.graduates {
		if existing.Email == g.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	return r.put(g).ID, nil
}

func (r *fakeGraduateRepo) GetByID(ctx context.Context, id int64) (*models.Graduate, error) {
	g, ok := r.graduates[id]
	if !ok {
		return nil, apperrors.ErrGraduateNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGraduateRepo) GetByEmail(ctx context.Context, email string) (*models.Graduate, error) {
	for _, g := range r.graduates {
		if g.Email == email {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperrors.ErrGraduateNotFound
}

func (r *fakeGraduateRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeGraduateRepo) GetAll(ctx context.Context) ([]*models.Graduate, error) {
	var out []*models.Graduate
	for _, g := range r.graduates {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeGraduateRepo) GetApprovedWithCoordinates(ctx context.Context) ([]*models.Graduate, error) {
	var out []*models.Graduate
	for _, g := range r.graduates {
		if g.Status == models.StatusApproved && g.HasCoordinates() {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGraduateRepo) Update(ctx context.Context, g *models.Graduate) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.graduates[g.ID]; !ok {
		return apperrors.ErrGraduateNotFound
	}
	r.updateCalls++
	cp := *g
	r.graduates[g.ID] = &cp
	return nil
}

func (r *fakeGraduateRepo) UpdateStatus(ctx context.Context, id int64, status models.GraduateStatus, observations *string, lat, lon *float64) error {
	g, ok := r.graduates[id]
	if !ok {
		return apperrors.ErrGraduateNotFound
	}
	r.statusCalls++
	g.Status = status
	g.AdminObservations = observations
	if lat != nil && lon != nil {
		g.Latitude = lat
		g.Longitude = lon
	}
	return nil
}

func (r *fakeGraduateRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	g, ok := r.graduates[id]
	if !ok {
		return apperrors.ErrGraduateNotFound
	}
	g.Password = hash
	return nil
}

func (r *fakeGraduateRepo) UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error {
	g, ok := r.graduates[id]
	if !ok {
		return apperrors.ErrGraduateNotFound
	}
	g.PhotoURL = &photoURL
	return nil
}

func (r *fakeGraduateRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.graduates[id]; !ok {
		return apperrors.ErrGraduateNotFound
	}
	delete(r.graduates, id)
	return nil
}

func (r *fakeGraduateRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.graduates)), nil
}

func (r *fakeGraduateRepo) CountDistinct(ctx context.Context, column string) (int64, error) {
	seen := make(map[string]bool)
	for _, g := range r.graduates {
		switch column {
		case "country":
			seen[g.Country] = true
		case "career":
			seen[g.Career] = true
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeGraduateRepo) CountByStatus(ctx context.Context, status models.GraduateStatus) (int64, error) {
	var n int64
	for _, g := range r.graduates {
		if g.Status == status {
			n++
		}
	}
	return n, nil
}

// fakeSessionTokenRepo is an in-memory ISessionTokenRepository
type fakeSessionTokenRepo struct {
	tokens map[string]*models.SessionToken
}

func newFakeSessionTokenRepo() *fakeSessionTokenRepo {
	return &fakeSessionTokenRepo{tokens: make(map[string]*models.SessionToken)}
}

func (r *fakeSessionTokenRepo) Create(ctx context.Context, graduateID int64, token string, expiresAt time.Time) error {
	r.tokens[token] = &models.SessionToken{GraduateID: graduateID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeSessionTokenRepo) GetByToken(ctx context.Context, token string) (*models.SessionToken, error) {
	st, ok := r.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	if st.Expired() {
		return nil, apperrors.ErrTokenExpired
	}
	return st, nil
}

func (r *fakeSessionTokenRepo) Delete(ctx context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *fakeSessionTokenRepo) DeleteByGraduate(ctx context.Context, graduateID int64) error {
	for token, st := range r.tokens {
		if st.GraduateID == graduateID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func (r *fakeSessionTokenRepo) CleanupExpired(ctx context.Context) (int64, error) {
	var n int64
	for token, st := range r.tokens {
		if st.Expired() {
			delete(r.tokens, token)
			n++
		}
	}
	return n, nil
}

// fakeGeocoder resolves from a fixed query table and records the queries
type fakeGeocoder struct {
	results map[string]geocode.Coordinates
	queries []string
}

func (g *fakeGeocoder) Resolve(ctx context.Context, query string) (geocode.Coordinates, bool) {
	g.queries = append(g.queries, query)
	coords, ok := g.results[query]
	return coords, ok
}

// fakeMailer records sent emails and can be told to fail
type fakeMailer struct {
	registration []string
	approvals    []string
	rejections   []string
	resetURLs    []string
	fail         bool
}

func (m *fakeMailer) err() error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	return nil
}

func (m *fakeMailer) SendRegistrationEmail(toEmail, toName string) error {
	m.registration = append(m.registration, toEmail)
	return m.err()
}

func (m *fakeMailer) SendApprovalEmail(toEmail, toName string) error {
	m.approvals = append(m.approvals, toEmail)
	return m.err()
}

func (m *fakeMailer) SendRejectionEmail(toEmail, toName, reason string) error {
	m.rejections = append(m.rejections, toEmail+"|"+reason)
	return m.err()
}

func (m *fakeMailer) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	m.resetURLs = append(m.resetURLs, resetURL)
	return m.err()
}

// fakeBroadcaster records published location changes
type fakeBroadcaster struct {
	events []struct {
		ID       int64
		Lat, Lon float64
	}
}

func (b *fakeBroadcaster) PublishLocationChange(id int64, lat, lon float64) {
	b.events = append(b.events, struct {
		ID       int64
		Lat, Lon float64
	}{id, lat, lon})
}

type graduateServiceFixture struct {
	repo        *fakeGraduateRepo
	tokens      *fakeSessionTokenRepo
	geocoder    *fakeGeocoder
	mailer      *fakeMailer
	broadcaster *fakeBroadcaster
	service     *GraduateService
}

func newGraduateServiceFixture() *graduateServiceFixture {
	f := &graduateServiceFixture{
		repo:        newFakeGraduateRepo(),
		tokens:      newFakeSessionTokenRepo(),
		geocoder:    &fakeGeocoder{results: make(map[string]geocode.Coordinates)},
		mailer:      &fakeMailer{},
		broadcaster: &fakeBroadcaster{},
	}
	f.service = NewGraduateService(f.repo, f.tokens, f.geocoder, f.mailer, f.broadcaster, nil, zerolog.Nop())
	return f
}

func pendingGraduate() *models.Graduate {
	return &models.Graduate{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Password:       "$2a$12$hash",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Tandil",
		Country:        "Argentina",
		Status:         models.StatusPending,
	}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestUpdateStatusApprovalGeocodesAndBroadcasts(t *testing.T) {
	f := newGraduateServiceFixture()
	g := f.repo.put(pendingGraduate())

	f.geocoder.results["Tandil, Argentina"] = geocode.Coordinates{Latitude: -37.32, Longitude: -59.13}

	updated, err := f.service.UpdateStatus(context.Background(), g.ID, models.StatusApproved, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.Status)
	require.NotNil(t, updated.Latitude)
	assert.InDelta(t, -37.32, *updated.Latitude, 0.001)

	require.Len(t, f.broadcaster.events, 1)
	assert.Equal(t, g.ID, f.broadcaster.events[0].ID)
	assert.InDelta(t, -59.13, f.broadcaster.events[0].Lon, 0.001)

	assert.Equal(t, []string{"ana@example.com"}, f.mailer.approvals)
	assert.Equal(t, 1, f.repo.statusCalls)
}

func TestUpdateStatusFallbackQueryOrder(t *testing.T) {
	f := newGraduateServiceFixture()
	g := pendingGraduate()
	g.Institution = strPtr("UNICEN")
	stored := f.repo.put(g)

	// Only the coarsest query resolves
	f.geocoder.results["Argentina"] = geocode.Coordinates{Latitude: -34.0, Longitude: -64.0}

	_, err := f.service.UpdateStatus(context.Background(), stored.ID, models.StatusApproved, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"UNICEN, Tandil, Argentina",
		"Tandil, Argentina",
		"Tandil",
		"Argentina",
	}, f.geocoder.queries)
}

func TestUpdateStatusApprovesWithoutCoordinatesWhenGeocodingFails(t *testing.T) {
	f := newGraduateServiceFixture()
	stored := f.repo.put(pendingGraduate())

	updated, err := f.service.UpdateStatus(context.Background(), stored.ID, models.StatusApproved, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Nil(t, updated.Latitude)
	assert.Empty(t, f.broadcaster.events)
	assert.Equal(t, []string{"ana@example.com"}, f.mailer.approvals)
}

func TestUpdateStatusReapprovalSkipsGeocoding(t *testing.T) {
	f := newGraduateServiceFixture()
	g := pendingGraduate()
	g.Status = models.StatusApproved
	g.Latitude = f64Ptr(-37.32)
	g.Longitude = f64Ptr(-59.13)
	stored := f.repo.put(g)

	_, err := f.service.UpdateStatus(context.Background(), stored.ID, models.StatusApproved, nil)
	require.NoError(t, err)

	assert.Empty(t, f.geocoder.queries)
	assert.Empty(t, f.broadcaster.events)
}

func TestUpdateStatusRejectionSendsObservations(t *testing.T) {
	f := newGraduateServiceFixture()
	stored := f.repo.put(pendingGraduate())

	obs := "Career could not be verified"
	updated, err := f.service.UpdateStatus(context.Background(), stored.ID, models.StatusRejected, &obs)
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, updated.Status)
	require.NotNil(t, updated.AdminObservations)
	assert.Equal(t, obs, *updated.AdminObservations)
	assert.Empty(t, f.geocoder.queries)
	require.Len(t, f.mailer.rejections, 1)
	assert.Equal(t, "ana@example.com|"+obs, f.mailer.rejections[0])
}

func TestUpdateStatusEmailFailureDoesNotAbort(t *testing.T) {
	f := newGraduateServiceFixture()
	stored := f.repo.put(pendingGraduate())
	f.mailer.fail = true

	updated, err := f.service.UpdateStatus(context.Background(), stored.ID, models.StatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
}

func TestUpdateStatusUnknownGraduate(t *testing.T) {
	f := newGraduateServiceFixture()

	_, err := f.service.UpdateStatus(context.Background(), 42, models.StatusApproved, nil)
	assert.ErrorIs(t, err, apperrors.ErrGraduateNotFound)
	assert.Empty(t, f.mailer.approvals)
	assert.Empty(t, f.broadcaster.events)
}

func TestUpdateStatusRejectsPendingTarget(t *testing.T) {
	f := newGraduateServiceFixture()
	stored := f.repo.put(pendingGraduate())

	_, err := f.service.UpdateStatus(context.Background(), stored.ID, models.StatusPending, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestRegisterCreatesPendingGraduate(t *testing.T) {
	f := newGraduateServiceFixture()

	resp, err := f.service.Register(context.Background(), &dto.RegisterGraduateRequest{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Password:       "secret-password",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Tandil",
		Country:        "Argentina",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ID)

	stored, err := f.repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.NotEqual(t, "secret-password", stored.Password)
	assert.NoError(t, auth.CheckPassword(stored.Password, "secret-password"))
	assert.Equal(t, []string{"ana@example.com"}, f.mailer.registration)
}

func TestRegisterRejectsUnknownCategory(t *testing.T) {
	f := newGraduateServiceFixture()

	_, err := f.service.Register(context.Background(), &dto.RegisterGraduateRequest{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Password:       "secret-password",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Tandil",
		Country:        "Argentina",
		PracticeArea:   strPtr("Astrology"),
	})
	assert.Error(t, err)
}

func TestRegisterEmailFailureStillSucceeds(t *testing.T) {
	f := newGraduateServiceFixture()
	f.mailer.fail = true

	resp, err := f.service.Register(context.Background(), &dto.RegisterGraduateRequest{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Password:       "secret-password",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Tandil",
		Country:        "Argentina",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestUpdateProfileCoordinateValidation(t *testing.T) {
	f := newGraduateServiceFixture()
	stored := f.repo.put(pendingGraduate())

	base := dto.UpdateProfileRequest{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Tandil",
		Country:        "Argentina",
	}

	tests := []struct {
		name string
		lat  *float64
		lon  *float64
	}{
		{"latitude out of range", f64Ptr(91), f64Ptr(0)},
		{"longitude out of range", f64Ptr(0), f64Ptr(181)},
		{"latitude without longitude", f64Ptr(-37.32), nil},
		{"longitude without latitude", nil, f64Ptr(-59.13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.Latitude = tt.lat
			req.Longitude = tt.lon
			_, err := f.service.UpdateProfile(context.Background(), stored.ID, &req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)
		})
	}
}

func TestUpdateProfileBroadcastsForApprovedGraduate(t *testing.T) {
	f := newGraduateServiceFixture()
	g := pendingGraduate()
	g.Status = models.StatusApproved
	g.Latitude = f64Ptr(-37.32)
	g.Longitude = f64Ptr(-59.13)
	stored := f.repo.put(g)

	req := &dto.UpdateProfileRequest{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Buenos Aires",
		Country:        "Argentina",
		Latitude:       f64Ptr(-34.60),
		Longitude:      f64Ptr(-58.38),
	}

	updated, err := f.service.UpdateProfile(context.Background(), stored.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Buenos Aires", updated.City)

	require.Len(t, f.broadcaster.events, 1)
	assert.InDelta(t, -34.60, f.broadcaster.events[0].Lat, 0.001)
}

func TestUpdateProfileSamePositionDoesNotBroadcast(t *testing.T) {
	f := newGraduateServiceFixture()
	g := pendingGraduate()
	g.Status = models.StatusApproved
	g.Latitude = f64Ptr(-37.32)
	g.Longitude = f64Ptr(-59.13)
	stored := f.repo.put(g)

	req := &dto.UpdateProfileRequest{
		FirstName:      "Ana",
		LastName:       "Suarez",
		Email:          "ana@example.com",
		Career:         "Systems Engineering",
		GraduationYear: 2015,
		City:           "Tandil",
		Country:        "Argentina",
		Latitude:       f64Ptr(-37.32),
		Longitude:      f64Ptr(-59.13),
	}

	_, err := f.service.UpdateProfile(context.Background(), stored.ID, req)
	require.NoError(t, err)
	assert.Empty(t, f.broadcaster.events)
}

func TestGetMapGraduatesFiltersUnlocated(t *testing.T) {
	f := newGraduateServiceFixture()

	located := pendingGraduate()
	located.Status = models.StatusApproved
	located.Latitude = f64Ptr(-37.32)
	located.Longitude = f64Ptr(-59.13)
	f.repo.put(located)

	unlocated := pendingGraduate()
	unlocated.Email = "other@example.com"
	unlocated.Status = models.StatusApproved
	f.repo.put(unlocated)

	pending := pendingGraduate()
	pending.Email = "third@example.com"
	pending.Latitude = f64Ptr(1)
	pending.Longitude = f64Ptr(1)
	f.repo.put(pending)

	entries, err := f.service.GetMapGraduates(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ana", entries[0].FirstName)
	assert.InDelta(t, -37.32, entries[0].Latitude, 0.001)
}
