package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/models"
	appErr "github.com/trackdays/api/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	// IsAdmin reports whether the user holds administrator privilege.
	// A missing user is simply "not admin": callers must not be able to
	// distinguish the two.
	IsAdmin(ctx context.Context, id string) (bool, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by email failed")
	}
	return nil
}

func (r *userRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	var u models.User
	if err := r.db.WithContext(ctx).Select("id", "is_admin").Where("id = ?", uid).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, appErr.Wrap(err, appErr.CodeInternal, "admin lookup failed")
	}
	return u.IsAdmin, nil
}
