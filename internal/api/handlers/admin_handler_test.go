package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trackdays/api/internal/api/types"
	"github.com/trackdays/api/internal/models"
	"github.com/trackdays/api/internal/repository"
	"github.com/trackdays/api/internal/services"
	appErr "github.com/trackdays/api/pkg/errors"
)

type mockLapTimeService struct {
	mock.Mock
}

func (m *mockLapTimeService) ListVerified(ctx context.Context) ([]repository.LapTimeRow, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]repository.LapTimeRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLapTimeService) ListForUser(ctx context.Context, userID uuid.UUID) ([]repository.LapTimeRow, *services.ProfileStats, error) {
	args := m.Called(ctx, userID)
	var rows []repository.LapTimeRow
	if v := args.Get(0); v != nil {
		rows = v.([]repository.LapTimeRow)
	}
	var stats *services.ProfileStats
	if v := args.Get(1); v != nil {
		stats = v.(*services.ProfileStats)
	}
	return rows, stats, args.Error(2)
}

func (m *mockLapTimeService) ListAllForAdmin(ctx context.Context, callerID string) ([]repository.LapTimeRow, error) {
	args := m.Called(ctx, callerID)
	if v := args.Get(0); v != nil {
		return v.([]repository.LapTimeRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLapTimeService) Submit(ctx context.Context, userID uuid.UUID, input *services.SubmitLapTimeInput) (*models.LapTime, error) {
	args := m.Called(ctx, userID, input)
	if v := args.Get(0); v != nil {
		return v.(*models.LapTime), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLapTimeService) Verify(ctx context.Context, lapTimeID uuid.UUID, callerID string) error {
	args := m.Called(ctx, lapTimeID, callerID)
	return args.Error(0)
}

func TestAdminListUnauthorizedEnvelope(t *testing.T) {
	svc := new(mockLapTimeService)
	svc.On("ListAllForAdmin", mock.Anything, "").
		Return(nil, appErr.New(appErr.CodeUnauthorized, "administrator privilege required"))

	h := NewAdminHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/lap-times", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, "unauthorized", resp.Error.Code)
	require.Nil(t, resp.Data)
}

func TestAdminListRendersRows(t *testing.T) {
	svc := new(mockLapTimeService)
	rows := []repository.LapTimeRow{
		{
			ID:        uuid.New(),
			TimeMs:    125034,
			Status:    models.LapStatusPending,
			UserName:  "Jean",
			UserEmail: "jean@example.com",
		},
	}
	svc.On("ListAllForAdmin", mock.Anything, mock.Anything).Return(rows, nil)

	h := NewAdminHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/lap-times", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, `"time_display":"2:05.034"`)
	require.Contains(t, body, `"email":"jean@example.com"`)
}

func TestVerifyFormPostAlwaysNoContent(t *testing.T) {
	svc := new(mockLapTimeService)
	lapID := uuid.New()
	svc.On("Verify", mock.Anything, lapID, "").Return(nil)

	form := url.Values{"lapTimeId": {lapID.String()}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lap-times/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	NewAdminHandler(svc).Verify(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Empty(t, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestVerifyMalformedIDSkipsService(t *testing.T) {
	svc := new(mockLapTimeService)

	form := url.Values{"lapTimeId": {"not-a-uuid"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lap-times/verify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	NewAdminHandler(svc).Verify(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyJSONBody(t *testing.T) {
	svc := new(mockLapTimeService)
	lapID := uuid.New()
	svc.On("Verify", mock.Anything, lapID, "").Return(nil)

	payload := `{"lapTimeId":"` + lapID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/lap-times/verify", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	NewAdminHandler(svc).Verify(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestPublicListNeverExposesEmail(t *testing.T) {
	svc := new(mockLapTimeService)
	rows := []repository.LapTimeRow{
		{ID: uuid.New(), TimeMs: 98123, Status: models.LapStatusVerified, UserName: "Jean"},
	}
	svc.On("ListVerified", mock.Anything).Return(rows, nil)

	h := NewLapTimesHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lap-times", nil)
	rr := httptest.NewRecorder()
	h.ListVerified(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "email")
}
