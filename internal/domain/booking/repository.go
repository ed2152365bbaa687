package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	BookingNumber      string     `gorm:"column:booking_number;uniqueIndex:idx_bookings_number"`
	CustomerID         int64      `gorm:"column:customer_id;index:idx_bookings_customer"`
	ArtistID           int64      `gorm:"column:artist_id;index:idx_bookings_artist"`
	ServiceType        string     `gorm:"column:service_type"`
	Occasion           *string    `gorm:"column:occasion"`
	Services           []byte     `gorm:"column:services;type:jsonb"`
	ScheduledDate      time.Time  `gorm:"column:scheduled_date"`
	StartTime          time.Time  `gorm:"column:start_time"`
	EndTime            time.Time  `gorm:"column:end_time"`
	Location           *string    `gorm:"column:location"`
	Subtotal           int64      `gorm:"column:subtotal"`
	PlatformFee        int64      `gorm:"column:platform_fee"`
	Tax                int64      `gorm:"column:tax"`
	TotalAmount        int64      `gorm:"column:total_amount"`
	Status             string     `gorm:"column:status;index:idx_bookings_status"`
	PaymentStatus      string     `gorm:"column:payment_status"`
	StatusHistory      []byte     `gorm:"column:status_history;type:jsonb"`
	DeclineReason      *string    `gorm:"column:decline_reason"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CompletedAt        *time.Time `gorm:"column:completed_at"`
	CompletedBy        *int64     `gorm:"column:completed_by"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// Migrate creates the bookings table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&bookingModel{})
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toBookingModel(b *Booking) (*bookingModel, error) {
	services, err := json.Marshal(b.Services)
	if err != nil {
		return nil, err
	}
	history, err := json.Marshal(b.StatusHistory)
	if err != nil {
		return nil, err
	}
	return &bookingModel{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		CustomerID:         b.CustomerID,
		ArtistID:           b.ArtistID,
		ServiceType:        b.ServiceType,
		Occasion:           strPtr(b.Occasion),
		Services:           services,
		ScheduledDate:      b.ScheduledDate,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Location:           strPtr(b.Location),
		Subtotal:           b.Subtotal,
		PlatformFee:        b.PlatformFee,
		Tax:                b.Tax,
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		StatusHistory:      history,
		DeclineReason:      strPtr(b.DeclineReason),
		CancellationReason: strPtr(b.CancellationReason),
		CompletedAt:        b.CompletedAt,
		CompletedBy:        b.CompletedBy,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}, nil
}

func toDomainBooking(m *bookingModel) (*Booking, error) {
	var services []BookedService
	if len(m.Services) > 0 {
		if err := json.Unmarshal(m.Services, &services); err != nil {
			return nil, err
		}
	}
	var history []StatusChange
	if len(m.StatusHistory) > 0 {
		if err := json.Unmarshal(m.StatusHistory, &history); err != nil {
			return nil, err
		}
	}
	return &Booking{
		ID:                 m.ID,
		BookingNumber:      m.BookingNumber,
		CustomerID:         m.CustomerID,
		ArtistID:           m.ArtistID,
		ServiceType:        m.ServiceType,
		Occasion:           strVal(m.Occasion),
		Services:           services,
		ScheduledDate:      m.ScheduledDate,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Location:           strVal(m.Location),
		Subtotal:           m.Subtotal,
		PlatformFee:        m.PlatformFee,
		Tax:                m.Tax,
		TotalAmount:        m.TotalAmount,
		Status:             BookingStatus(m.Status),
		PaymentStatus:      PaymentStatus(m.PaymentStatus),
		StatusHistory:      history,
		DeclineReason:      strVal(m.DeclineReason),
		CancellationReason: strVal(m.CancellationReason),
		CompletedAt:        m.CompletedAt,
		CompletedBy:        m.CompletedBy,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *Booking) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_bookings_number" {
			return ErrNumberCollision
		}
		return err
	}
	b.ID = m.ID
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainBooking(&m)
}

// UpdateStatusConditional is the optimistic-concurrency transition write:
// UPDATE bookings SET status=?, status_history=?, ... WHERE id=? AND status=?.
// Zero rows affected means the booking is gone or a concurrent transition
// won the race.
func (r *bookingRepository) UpdateStatusConditional(ctx context.Context, id int64, expected, next BookingStatus, entry StatusChange, extra map[string]any) (*Booking, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history := make([]StatusChange, 0, len(current.StatusHistory)+1)
	history = append(history, current.StatusHistory...)
	history = append(history, entry)
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"status":         string(next),
		"status_history": rawHistory,
		"updated_at":     time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Row vanished or another transition got there first.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidStatusTransition
	}

	return r.GetByID(ctx, id)
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status PaymentStatus) (*Booking, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": string(status),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int64, f ListFilters) ([]Booking, error) {
	return r.list(ctx, "customer_id", customerID, f)
}

func (r *bookingRepository) ListByArtist(ctx context.Context, artistID int64, f ListFilters) ([]Booking, error) {
	return r.list(ctx, "artist_id", artistID, f)
}

func (r *bookingRepository) list(ctx context.Context, column string, ownerID int64, f ListFilters) ([]Booking, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where(column+" = ?", ownerID).
		Order("scheduled_date DESC, id DESC").
		Limit(limit).
		Offset(f.Offset)
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Booking, 0, len(rows))
	for i := range rows {
		b, err := toDomainBooking(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}
