package repository

import (
	"context"

	"github.com/trackdays/api/internal/models"
	appErr "github.com/trackdays/api/pkg/errors"
	"gorm.io/gorm"
)

type CarModelRepository interface {
	BaseRepository[models.CarModel]
	ListAll(ctx context.Context) ([]models.CarModel, error)
}

type carModelRepository struct {
	BaseRepository[models.CarModel]
	db *gorm.DB
}

func NewCarModelRepository(db *gorm.DB) CarModelRepository {
	return &carModelRepository{BaseRepository: NewBaseRepository[models.CarModel](db), db: db}
}

func (r *carModelRepository) ListAll(ctx context.Context) ([]models.CarModel, error) {
	var out []models.CarModel
	if err := r.db.WithContext(ctx).Order("make ASC, model ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list car models failed")
	}
	return out, nil
}
