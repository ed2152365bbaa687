package notification

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository handles inbox, preference and device-token persistence
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error

	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	CreatePreferences(ctx context.Context, p *Preferences) error
	UpdatePreferences(ctx context.Context, userID int64, changes map[string]any) (*Preferences, error)

	ActiveTokens(ctx context.Context, userID int64) ([]DeviceToken, error)
	RegisterToken(ctx context.Context, t *DeviceToken) error
	DeactivateTokens(ctx context.Context, tokens []string) error
}

var ErrPreferencesNotFound = errors.New("preferences not found")

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateNotification(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *repository) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
}

func (r *repository) MarkAllAsRead(ctx context.Context, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
}

func (r *repository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var p Preferences
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPreferencesNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePreferences tolerates a concurrent first-access race: a duplicate
// insert resolves to the existing row instead of erroring.
func (r *repository) CreatePreferences(ctx context.Context, p *Preferences) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	err := r.db.WithContext(ctx).Create(p).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		existing, getErr := r.GetPreferences(ctx, p.UserID)
		if getErr != nil {
			return getErr
		}
		*p = *existing
		return nil
	}
	return err
}

func (r *repository) UpdatePreferences(ctx context.Context, userID int64, changes map[string]any) (*Preferences, error) {
	changes["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).
		Model(&Preferences{}).
		Where("user_id = ?", userID).
		Updates(changes).Error
	if err != nil {
		return nil, err
	}
	return r.GetPreferences(ctx, userID)
}

func (r *repository) ActiveTokens(ctx context.Context, userID int64) ([]DeviceToken, error) {
	var tokens []DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&tokens).Error
	return tokens, err
}

// RegisterToken upserts on the token value: a token re-registered by the
// same or a different user is reactivated and reassigned.
func (r *repository) RegisterToken(ctx context.Context, t *DeviceToken) error {
	now := time.Now()
	var existing DeviceToken
	err := r.db.WithContext(ctx).Where("token = ?", t.Token).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.IsActive = true
		t.CreatedAt = now
		t.LastUsedAt = now
		return r.db.WithContext(ctx).Create(t).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"user_id":      t.UserID,
			"platform":     t.Platform,
			"is_active":    true,
			"last_used_at": now,
		}).Error
}

func (r *repository) DeactivateTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("token IN ?", tokens).
		Update("is_active", false).Error
}
