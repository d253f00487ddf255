package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/models"
	appErr "github.com/trackdays/api/pkg/errors"
	"gorm.io/gorm"
)

type TrackRepository interface {
	BaseRepository[models.Track]
	ListAll(ctx context.Context) ([]models.Track, error)
	GetBySlug(ctx context.Context, slug string, dest *models.Track) error
	ListLayouts(ctx context.Context, trackID uuid.UUID) ([]models.TrackLayout, error)
	GetLayoutByID(ctx context.Context, id uuid.UUID, dest *models.TrackLayout) error
}

type trackRepository struct {
	BaseRepository[models.Track]
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepository{BaseRepository: NewBaseRepository[models.Track](db), db: db}
}

func (r *trackRepository) ListAll(ctx context.Context) ([]models.Track, error) {
	var out []models.Track
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tracks failed")
	}
	return out, nil
}

func (r *trackRepository) GetBySlug(ctx context.Context, slug string, dest *models.Track) error {
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "track not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get track by slug failed")
	}
	return nil
}

func (r *trackRepository) ListLayouts(ctx context.Context, trackID uuid.UUID) ([]models.TrackLayout, error) {
	var out []models.TrackLayout
	if err := r.db.WithContext(ctx).Where("track_id = ?", trackID).Order("name ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list track layouts failed")
	}
	return out, nil
}

func (r *trackRepository) GetLayoutByID(ctx context.Context, id uuid.UUID, dest *models.TrackLayout) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "track layout not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get track layout failed")
	}
	return nil
}
