package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/models"
	appErr "github.com/trackdays/api/pkg/errors"
	"gorm.io/gorm"
)

// LapTimeRow is a lap time joined to its full reference chain. The inner
// joins guarantee a row is never produced without user, track, layout, and
// car resolved. UserEmail and ProofURL are only selected by the admin
// projection and stay empty elsewhere.
type LapTimeRow struct {
	ID         uuid.UUID        `json:"id"`
	TimeMs     int64            `json:"time_ms"`
	DrivenAt   time.Time        `json:"driven_at"`
	Status     models.LapStatus `json:"status"`
	ProofURL   string           `json:"proof_url,omitempty"`
	UserID     uuid.UUID        `json:"user_id"`
	UserName   string           `json:"user_name"`
	UserEmail  string           `json:"user_email,omitempty"`
	TrackID    uuid.UUID        `json:"track_id"`
	TrackName  string           `json:"track_name"`
	TrackSlug  string           `json:"track_slug"`
	LayoutID   uuid.UUID        `json:"layout_id"`
	LayoutName string           `json:"layout_name"`
	CarID      uuid.UUID        `json:"car_id"`
	CarMake    string           `json:"car_make"`
	CarModel   string           `json:"car_model"`
	CarTrim    string           `json:"car_trim,omitempty"`
}

type LapTimeRepository interface {
	BaseRepository[models.LapTime]
	ListVerified(ctx context.Context) ([]LapTimeRow, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]LapTimeRow, error)
	ListAll(ctx context.Context) ([]LapTimeRow, error)
	// MarkVerified performs the single conditional update
	//   SET status=verified, verified_by=?, verified_at=?
	//   WHERE id=? AND status='pending'
	// and returns the number of rows affected. Zero is a normal outcome
	// (already decided, lost a race, or no such id), not an error.
	MarkVerified(ctx context.Context, id, verifiedBy uuid.UUID, at time.Time) (int64, error)
}

type lapTimeRepository struct {
	BaseRepository[models.LapTime]
	db *gorm.DB
}

func NewLapTimeRepository(db *gorm.DB) LapTimeRepository {
	return &lapTimeRepository{BaseRepository: NewBaseRepository[models.LapTime](db), db: db}
}

const lapTimeSelect = `lap_times.id, lap_times.time_ms, lap_times.driven_at, lap_times.status,
users.id AS user_id, users.name AS user_name,
tracks.id AS track_id, tracks.name AS track_name, tracks.slug AS track_slug,
track_layouts.id AS layout_id, track_layouts.name AS layout_name,
car_models.id AS car_id, car_models.make AS car_make, car_models.model AS car_model, car_models.trim AS car_trim`

const lapTimeAdminSelect = lapTimeSelect + `,
lap_times.proof_url, users.email AS user_email`

func (r *lapTimeRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("lap_times").
		Joins("INNER JOIN users ON users.id = lap_times.user_id").
		Joins("INNER JOIN track_layouts ON track_layouts.id = lap_times.track_layout_id").
		Joins("INNER JOIN tracks ON tracks.id = track_layouts.track_id").
		Joins("INNER JOIN car_models ON car_models.id = lap_times.car_model_id")
}

func (r *lapTimeRepository) ListVerified(ctx context.Context) ([]LapTimeRow, error) {
	var out []LapTimeRow
	err := r.joined(ctx).
		Select(lapTimeSelect).
		Where("lap_times.status = ?", models.LapStatusVerified).
		Order("lap_times.driven_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list verified lap times failed")
	}
	return out, nil
}

func (r *lapTimeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]LapTimeRow, error) {
	var out []LapTimeRow
	err := r.joined(ctx).
		Select(lapTimeSelect).
		Where("lap_times.user_id = ?", userID).
		Order("lap_times.driven_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list lap times by user failed")
	}
	return out, nil
}

func (r *lapTimeRepository) ListAll(ctx context.Context) ([]LapTimeRow, error) {
	var out []LapTimeRow
	err := r.joined(ctx).
		Select(lapTimeAdminSelect).
		Order("lap_times.driven_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list all lap times failed")
	}
	return out, nil
}

func (r *lapTimeRepository) MarkVerified(ctx context.Context, id, verifiedBy uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.LapTime{}).
		Where("id = ? AND status = ?", id, models.LapStatusPending).
		Updates(map[string]any{
			"status":      models.LapStatusVerified,
			"verified_by": verifiedBy,
			"verified_at": at,
		})
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "mark lap time verified failed")
	}
	return res.RowsAffected, nil
}
