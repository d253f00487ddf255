package services

import (
	"context"

	"github.com/trackdays/api/internal/models"
	"github.com/trackdays/api/internal/repository"
	"github.com/trackdays/api/pkg/logger"
	"go.uber.org/zap"
)

// TrackService serves the read-only reference catalog.
type TrackService interface {
	ListTracks(ctx context.Context) ([]models.Track, error)
	GetTrackBySlug(ctx context.Context, slug string) (*TrackDetail, error)
	ListCarModels(ctx context.Context) ([]models.CarModel, error)
}

type TrackDetail struct {
	models.Track
	Layouts []models.TrackLayout `json:"layouts"`
}

type trackService struct {
	tracks repository.TrackRepository
	cars   repository.CarModelRepository
}

func NewTrackService(tracks repository.TrackRepository, cars repository.CarModelRepository) TrackService {
	return &trackService{tracks: tracks, cars: cars}
}

var _ TrackService = (*trackService)(nil)

func (s *trackService) ListTracks(ctx context.Context) ([]models.Track, error) {
	out, err := s.tracks.ListAll(ctx)
	if err != nil {
		logger.L().Error("list tracks failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *trackService) GetTrackBySlug(ctx context.Context, slug string) (*TrackDetail, error) {
	var t models.Track
	if err := s.tracks.GetBySlug(ctx, slug, &t); err != nil {
		return nil, err
	}
	layouts, err := s.tracks.ListLayouts(ctx, t.ID)
	if err != nil {
		logger.L().Error("list layouts failed", zap.String("track_id", t.ID.String()), zap.Error(err))
		return nil, err
	}
	return &TrackDetail{Track: t, Layouts: layouts}, nil
}

func (s *trackService) ListCarModels(ctx context.Context) ([]models.CarModel, error) {
	out, err := s.cars.ListAll(ctx)
	if err != nil {
		logger.L().Error("list car models failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}
