package services

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trackdays/api/internal/cache"
	"github.com/trackdays/api/internal/models"
	"github.com/trackdays/api/internal/repository"
	appErr "github.com/trackdays/api/pkg/errors"
	"github.com/trackdays/api/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by services)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// Mock implementations

type mockLapTimeRepo struct {
	mock.Mock
}

func (m *mockLapTimeRepo) Create(ctx context.Context, obj *models.LapTime) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockLapTimeRepo) GetByID(ctx context.Context, id any, dest *models.LapTime) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockLapTimeRepo) ListVerified(ctx context.Context) ([]repository.LapTimeRow, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]repository.LapTimeRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLapTimeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.LapTimeRow, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]repository.LapTimeRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLapTimeRepo) ListAll(ctx context.Context) ([]repository.LapTimeRow, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]repository.LapTimeRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLapTimeRepo) MarkVerified(ctx context.Context, id, verifiedBy uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, id, verifiedBy, at)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, obj *models.User) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	args := m.Called(ctx, email, dest)
	return args.Error(0)
}

func (m *mockUserRepo) IsAdmin(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockTrackRepo struct {
	mock.Mock
}

func (m *mockTrackRepo) Create(ctx context.Context, obj *models.Track) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockTrackRepo) GetByID(ctx context.Context, id any, dest *models.Track) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockTrackRepo) ListAll(ctx context.Context) ([]models.Track, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.Track), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTrackRepo) GetBySlug(ctx context.Context, slug string, dest *models.Track) error {
	args := m.Called(ctx, slug, dest)
	return args.Error(0)
}

func (m *mockTrackRepo) ListLayouts(ctx context.Context, trackID uuid.UUID) ([]models.TrackLayout, error) {
	args := m.Called(ctx, trackID)
	if v := args.Get(0); v != nil {
		return v.([]models.TrackLayout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTrackRepo) GetLayoutByID(ctx context.Context, id uuid.UUID, dest *models.TrackLayout) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

type mockCarRepo struct {
	mock.Mock
}

func (m *mockCarRepo) Create(ctx context.Context, obj *models.CarModel) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockCarRepo) GetByID(ctx context.Context, id any, dest *models.CarModel) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockCarRepo) ListAll(ctx context.Context) ([]models.CarModel, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.CarModel), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockViewCache struct {
	mock.Mock
}

func (m *mockViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Bool(1)
	}
	return nil, args.Bool(1)
}

func (m *mockViewCache) Set(ctx context.Context, key string, payload []byte) {
	m.Called(ctx, key, payload)
}

func (m *mockViewCache) Invalidate(ctx context.Context, keys ...string) {
	m.Called(ctx, keys)
}

func newTestService(laps *mockLapTimeRepo, users *mockUserRepo, cars *mockCarRepo, trks *mockTrackRepo, views *mockViewCache) *lapTimeService {
	return &lapTimeService{
		laps:  laps,
		users: users,
		cars:  cars,
		trks:  trks,
		views: views,
		now:   func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestVerifyWithoutSessionIsNoOp(t *testing.T) {
	laps := new(mockLapTimeRepo)
	users := new(mockUserRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

	err := svc.Verify(context.Background(), uuid.New(), "")
	require.NoError(t, err)

	users.AssertNotCalled(t, "IsAdmin", mock.Anything, mock.Anything)
	laps.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	views.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestVerifyByNonAdminIsNoOp(t *testing.T) {
	laps := new(mockLapTimeRepo)
	users := new(mockUserRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

	caller := uuid.New().String()
	users.On("IsAdmin", mock.Anything, caller).Return(false, nil)

	err := svc.Verify(context.Background(), uuid.New(), caller)
	require.NoError(t, err)

	laps.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	views.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestVerifyZeroRowsAffectedIsNoOp(t *testing.T) {
	laps := new(mockLapTimeRepo)
	users := new(mockUserRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

	admin := uuid.New()
	lapID := uuid.New()
	users.On("IsAdmin", mock.Anything, admin.String()).Return(true, nil)
	// Already decided, lost a concurrent race, or no such id.
	laps.On("MarkVerified", mock.Anything, lapID, admin, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

	err := svc.Verify(context.Background(), lapID, admin.String())
	require.NoError(t, err)

	views.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestVerifySuccessInvalidatesViews(t *testing.T) {
	laps := new(mockLapTimeRepo)
	users := new(mockUserRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

	admin := uuid.New()
	lapID := uuid.New()
	users.On("IsAdmin", mock.Anything, admin.String()).Return(true, nil)
	laps.On("MarkVerified", mock.Anything, lapID, admin, svc.now()).Return(int64(1), nil)
	views.On("Invalidate", mock.Anything, []string{cache.KeyVerifiedList, cache.KeyAdminList}).Return()

	err := svc.Verify(context.Background(), lapID, admin.String())
	require.NoError(t, err)

	laps.AssertExpectations(t)
	views.AssertExpectations(t)
}

func TestVerifyPropagatesStoreFailure(t *testing.T) {
	laps := new(mockLapTimeRepo)
	users := new(mockUserRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

	admin := uuid.New()
	lapID := uuid.New()
	users.On("IsAdmin", mock.Anything, admin.String()).Return(true, nil)
	laps.On("MarkVerified", mock.Anything, lapID, admin, mock.AnythingOfType("time.Time")).
		Return(int64(0), appErr.New(appErr.CodeInternal, "mark lap time verified failed"))

	err := svc.Verify(context.Background(), lapID, admin.String())
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInternal))
	views.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestListAllForAdminFailsClosed(t *testing.T) {
	// "No session" and "session but not admin" must be indistinguishable.
	for name, caller := range map[string]string{
		"no session": "",
		"not admin":  uuid.New().String(),
	} {
		t.Run(name, func(t *testing.T) {
			laps := new(mockLapTimeRepo)
			users := new(mockUserRepo)
			views := new(mockViewCache)
			svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

			users.On("IsAdmin", mock.Anything, caller).Return(false, nil)

			rows, err := svc.ListAllForAdmin(context.Background(), caller)
			require.Nil(t, rows)
			require.Error(t, err)
			require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
			require.EqualError(t, err, "unauthorized: administrator privilege required")

			laps.AssertNotCalled(t, "ListAll", mock.Anything)
			views.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestListAllForAdminQueriesAndCaches(t *testing.T) {
	laps := new(mockLapTimeRepo)
	users := new(mockUserRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, users, new(mockCarRepo), new(mockTrackRepo), views)

	admin := uuid.New().String()
	rows := []repository.LapTimeRow{
		{ID: uuid.New(), TimeMs: 125034, Status: models.LapStatusPending, UserEmail: "driver@example.com"},
	}
	users.On("IsAdmin", mock.Anything, admin).Return(true, nil)
	views.On("Get", mock.Anything, cache.KeyAdminList).Return(nil, false)
	laps.On("ListAll", mock.Anything).Return(rows, nil)
	views.On("Set", mock.Anything, cache.KeyAdminList, mock.Anything).Return()

	got, err := svc.ListAllForAdmin(context.Background(), admin)
	require.NoError(t, err)
	require.Equal(t, rows, got)
	views.AssertExpectations(t)
}

func TestListVerifiedServesFromCache(t *testing.T) {
	laps := new(mockLapTimeRepo)
	views := new(mockViewCache)
	svc := newTestService(laps, new(mockUserRepo), new(mockCarRepo), new(mockTrackRepo), views)

	rows := []repository.LapTimeRow{{ID: uuid.New(), TimeMs: 98765, Status: models.LapStatusVerified}}
	payload, err := json.Marshal(rows)
	require.NoError(t, err)
	views.On("Get", mock.Anything, cache.KeyVerifiedList).Return(payload, true)

	got, err := svc.ListVerified(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, rows[0].ID, got[0].ID)

	laps.AssertNotCalled(t, "ListVerified", mock.Anything)
}

func TestListForUserComputesStats(t *testing.T) {
	laps := new(mockLapTimeRepo)
	svc := newTestService(laps, new(mockUserRepo), new(mockCarRepo), new(mockTrackRepo), new(mockViewCache))

	userID := uuid.New()
	trackA := uuid.New()
	trackB := uuid.New()
	rows := []repository.LapTimeRow{
		{ID: uuid.New(), TrackID: trackA, Status: models.LapStatusVerified},
		{ID: uuid.New(), TrackID: trackA, Status: models.LapStatusPending},
		{ID: uuid.New(), TrackID: trackB, Status: models.LapStatusVerified},
	}
	laps.On("ListByUser", mock.Anything, userID).Return(rows, nil)

	got, stats, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 2, stats.Verified)
	require.Equal(t, 2, stats.DistinctTracks)
}

func TestSubmitRejectsNonPositiveTime(t *testing.T) {
	laps := new(mockLapTimeRepo)
	svc := newTestService(laps, new(mockUserRepo), new(mockCarRepo), new(mockTrackRepo), new(mockViewCache))

	_, err := svc.Submit(context.Background(), uuid.New(), &SubmitLapTimeInput{
		TrackLayoutID: uuid.New(),
		CarModelID:    uuid.New(),
		TimeMs:        0,
		DrivenAt:      time.Now(),
	})
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	laps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitRejectsUnknownLayout(t *testing.T) {
	laps := new(mockLapTimeRepo)
	trks := new(mockTrackRepo)
	svc := newTestService(laps, new(mockUserRepo), new(mockCarRepo), trks, new(mockViewCache))

	layoutID := uuid.New()
	trks.On("GetLayoutByID", mock.Anything, layoutID, mock.Anything).
		Return(appErr.New(appErr.CodeNotFound, "track layout not found"))

	_, err := svc.Submit(context.Background(), uuid.New(), &SubmitLapTimeInput{
		TrackLayoutID: layoutID,
		CarModelID:    uuid.New(),
		TimeMs:        90123,
		DrivenAt:      time.Now(),
	})
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	laps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitCreatesPendingLapTime(t *testing.T) {
	laps := new(mockLapTimeRepo)
	trks := new(mockTrackRepo)
	cars := new(mockCarRepo)
	svc := newTestService(laps, new(mockUserRepo), cars, trks, new(mockViewCache))

	userID := uuid.New()
	layoutID := uuid.New()
	carID := uuid.New()
	trks.On("GetLayoutByID", mock.Anything, layoutID, mock.Anything).Return(nil)
	cars.On("GetByID", mock.Anything, carID, mock.Anything).Return(nil)
	laps.On("Create", mock.Anything, mock.MatchedBy(func(lt *models.LapTime) bool {
		return lt.Status == models.LapStatusPending && lt.UserID == userID && lt.TimeMs == 125034
	})).Return(nil)

	lt, err := svc.Submit(context.Background(), userID, &SubmitLapTimeInput{
		TrackLayoutID: layoutID,
		CarModelID:    carID,
		TimeMs:        125034,
		DrivenAt:      time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, models.LapStatusPending, lt.Status)
	require.Nil(t, lt.VerifiedBy)
	require.Nil(t, lt.VerifiedAt)
	laps.AssertExpectations(t)
}
