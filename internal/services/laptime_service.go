package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/cache"
	"github.com/trackdays/api/internal/models"
	"github.com/trackdays/api/internal/repository"
	appErr "github.com/trackdays/api/pkg/errors"
	"github.com/trackdays/api/pkg/logger"
	"go.uber.org/zap"
)

// LapTimeService covers the lap-time read projections, the submission path,
// and the verification workflow.
type LapTimeService interface {
	// ListVerified returns every verified lap time joined to its reference
	// chain, most recent drive first. The projection never exposes the
	// submitter's email.
	ListVerified(ctx context.Context) ([]repository.LapTimeRow, error)

	// ListForUser returns one user's lap times regardless of status, plus
	// profile statistics computed from them.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]repository.LapTimeRow, *ProfileStats, error)

	// ListAllForAdmin returns every lap time regardless of status, with
	// submitter email and proof URL. The caller must hold administrator
	// privilege; "no session", "unknown user", and "not admin" all fail
	// identically with an unauthorized error.
	ListAllForAdmin(ctx context.Context, callerID string) ([]repository.LapTimeRow, error)

	// Submit creates a pending lap time owned by the caller.
	Submit(ctx context.Context, userID uuid.UUID, input *SubmitLapTimeInput) (*models.LapTime, error)

	// Verify transitions one lap time pending -> verified on behalf of an
	// administrator. Every failure mode short of a persistence fault is a
	// silent no-op: absent caller, non-admin caller, unknown id, and a lost
	// race all leave the store untouched and return nil.
	Verify(ctx context.Context, lapTimeID uuid.UUID, callerID string) error
}

type SubmitLapTimeInput struct {
	TrackLayoutID uuid.UUID
	CarModelID    uuid.UUID
	TimeMs        int64
	DrivenAt      time.Time
	ProofURL      string
}

type ProfileStats struct {
	Total          int `json:"total"`
	Verified       int `json:"verified"`
	DistinctTracks int `json:"distinct_tracks"`
}

type lapTimeService struct {
	laps  repository.LapTimeRepository
	users repository.UserRepository
	cars  repository.CarModelRepository
	trks  repository.TrackRepository
	views cache.ViewCache
	now   func() time.Time
}

func NewLapTimeService(
	laps repository.LapTimeRepository,
	users repository.UserRepository,
	cars repository.CarModelRepository,
	trks repository.TrackRepository,
	views cache.ViewCache,
) LapTimeService {
	return &lapTimeService{laps: laps, users: users, cars: cars, trks: trks, views: views, now: time.Now}
}

var _ LapTimeService = (*lapTimeService)(nil)

func (s *lapTimeService) ListVerified(ctx context.Context) ([]repository.LapTimeRow, error) {
	if b, ok := s.views.Get(ctx, cache.KeyVerifiedList); ok {
		var rows []repository.LapTimeRow
		if err := json.Unmarshal(b, &rows); err == nil {
			return rows, nil
		}
		s.views.Invalidate(ctx, cache.KeyVerifiedList)
	}

	rows, err := s.laps.ListVerified(ctx)
	if err != nil {
		logger.L().Error("list verified lap times failed", zap.Error(err))
		return nil, err
	}

	if b, err := json.Marshal(rows); err == nil {
		s.views.Set(ctx, cache.KeyVerifiedList, b)
	}
	return rows, nil
}

func (s *lapTimeService) ListForUser(ctx context.Context, userID uuid.UUID) ([]repository.LapTimeRow, *ProfileStats, error) {
	rows, err := s.laps.ListByUser(ctx, userID)
	if err != nil {
		logger.L().Error("list lap times for user failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, nil, err
	}

	stats := &ProfileStats{Total: len(rows)}
	tracks := map[uuid.UUID]struct{}{}
	for _, r := range rows {
		if r.Status == models.LapStatusVerified {
			stats.Verified++
		}
		tracks[r.TrackID] = struct{}{}
	}
	stats.DistinctTracks = len(tracks)
	return rows, stats, nil
}

func (s *lapTimeService) ListAllForAdmin(ctx context.Context, callerID string) ([]repository.LapTimeRow, error) {
	// The gate runs before any cache or store read, on every call. The admin
	// flag itself is never cached so revocation takes effect immediately.
	admin, err := s.users.IsAdmin(ctx, callerID)
	if err != nil {
		logger.L().Error("admin lookup failed", zap.Error(err))
		return nil, err
	}
	if !admin {
		return nil, appErr.New(appErr.CodeUnauthorized, "administrator privilege required")
	}

	if b, ok := s.views.Get(ctx, cache.KeyAdminList); ok {
		var rows []repository.LapTimeRow
		if err := json.Unmarshal(b, &rows); err == nil {
			return rows, nil
		}
		s.views.Invalidate(ctx, cache.KeyAdminList)
	}

	rows, err := s.laps.ListAll(ctx)
	if err != nil {
		logger.L().Error("list all lap times failed", zap.Error(err))
		return nil, err
	}

	if b, err := json.Marshal(rows); err == nil {
		s.views.Set(ctx, cache.KeyAdminList, b)
	}
	return rows, nil
}

func (s *lapTimeService) Submit(ctx context.Context, userID uuid.UUID, input *SubmitLapTimeInput) (*models.LapTime, error) {
	if input.TimeMs <= 0 {
		return nil, appErr.New(appErr.CodeInvalid, "time_ms must be positive")
	}

	var layout models.TrackLayout
	if err := s.trks.GetLayoutByID(ctx, input.TrackLayoutID, &layout); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeInvalid, "unknown track layout")
		}
		return nil, err
	}
	var car models.CarModel
	if err := s.cars.GetByID(ctx, input.CarModelID, &car); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeInvalid, "unknown car model")
		}
		return nil, err
	}

	lt := &models.LapTime{
		UserID:        userID,
		TrackLayoutID: input.TrackLayoutID,
		CarModelID:    input.CarModelID,
		TimeMs:        input.TimeMs,
		DrivenAt:      input.DrivenAt,
		Status:        models.LapStatusPending,
		ProofURL:      input.ProofURL,
	}
	if err := s.laps.Create(ctx, lt); err != nil {
		logger.L().Error("create lap time failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	logger.L().Info("lap time submitted",
		zap.String("lap_time_id", lt.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("time_ms", lt.TimeMs),
	)
	return lt, nil
}

func (s *lapTimeService) Verify(ctx context.Context, lapTimeID uuid.UUID, callerID string) error {
	adminID, err := uuid.Parse(callerID)
	if err != nil {
		// No session. A normal outcome, not an error.
		return nil
	}

	admin, err := s.users.IsAdmin(ctx, callerID)
	if err != nil {
		logger.L().Error("admin lookup failed during verification", zap.Error(err))
		return err
	}
	if !admin {
		return nil
	}

	// The conditional update is the only concurrency control: of N racing
	// calls exactly one matches status = pending, the rest see zero rows.
	affected, err := s.laps.MarkVerified(ctx, lapTimeID, adminID, s.now())
	if err != nil {
		logger.L().Error("verify lap time failed", zap.String("lap_time_id", lapTimeID.String()), zap.Error(err))
		return err
	}
	if affected == 0 {
		logger.L().Debug("verify was a no-op", zap.String("lap_time_id", lapTimeID.String()))
		return nil
	}

	s.views.Invalidate(ctx, cache.KeyVerifiedList, cache.KeyAdminList)
	logger.L().Info("lap time verified",
		zap.String("lap_time_id", lapTimeID.String()),
		zap.String("verified_by", adminID.String()),
	)
	return nil
}
