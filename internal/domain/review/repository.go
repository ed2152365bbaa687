package review

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	ExistsForBooking(ctx context.Context, bookingID int64) (bool, error)
	ListByArtist(ctx context.Context, artistID int64, limit, offset int) ([]Review, error)
	AverageRating(ctx context.Context, artistID int64) (float64, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rev *Review) error {
	rev.CreatedAt = time.Now()
	err := r.db.WithContext(ctx).Create(rev).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyReviewed
	}
	return err
}

func (r *repository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Where("booking_id = ?", bookingID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) ListByArtist(ctx context.Context, artistID int64, limit, offset int) ([]Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []Review
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *repository) AverageRating(ctx context.Context, artistID int64) (float64, int64, error) {
	type agg struct {
		Avg   float64
		Count int64
	}
	var out agg
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("artist_id = ?", artistID).
		Scan(&out).Error
	return out.Avg, out.Count, err
}
