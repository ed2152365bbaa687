package notification

import (
	"encoding/json"
	"time"
)

// Type is the notification event type. Preference flags are keyed by these.
type Type string

const (
	TypeBookingCreated    Type = "booking_created"     // artist: new booking request
	TypeBookingConfirmed  Type = "booking_confirmed"   // customer: artist accepted
	TypeBookingDeclined   Type = "booking_declined"    // customer: artist declined
	TypeBookingCancelled  Type = "booking_cancelled"   // counterparty: booking cancelled
	TypeBookingInProgress Type = "booking_in_progress" // customer: service started
	TypeBookingCompleted  Type = "booking_completed"   // customer: service completed
	TypeNewMessage        Type = "new_message"         // both: new chat message
	TypeMarketing         Type = "marketing"           // promos, opt-in
	TypeBookingUpdated    Type = "booking_updated"     // fallback for unmapped statuses
)

// Notification is one inbox entry
type Notification struct {
	ID        int64           `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64           `gorm:"column:user_id;index:idx_notifications_user" json:"user_id"`
	Type      Type            `gorm:"column:type" json:"type"`
	Title     string          `gorm:"column:title" json:"title"`
	Body      string          `gorm:"column:body" json:"body,omitempty"`
	Data      json.RawMessage `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	IsRead    bool            `gorm:"column:is_read;index:idx_notifications_user" json:"is_read"`
	ReadAt    *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Preferences holds a user's per-event opt-outs. Rows are created lazily on
// first access; everything defaults on except marketing.
type Preferences struct {
	ID                int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID            int64     `gorm:"column:user_id;uniqueIndex:idx_notification_prefs_user" json:"user_id"`
	BookingCreated    bool      `gorm:"column:booking_created;default:true" json:"booking_created"`
	BookingConfirmed  bool      `gorm:"column:booking_confirmed;default:true" json:"booking_confirmed"`
	BookingDeclined   bool      `gorm:"column:booking_declined;default:true" json:"booking_declined"`
	BookingCancelled  bool      `gorm:"column:booking_cancelled;default:true" json:"booking_cancelled"`
	BookingInProgress bool      `gorm:"column:booking_in_progress;default:true" json:"booking_in_progress"`
	BookingCompleted  bool      `gorm:"column:booking_completed;default:true" json:"booking_completed"`
	NewMessage        bool      `gorm:"column:new_message;default:true" json:"new_message"`
	Marketing         bool      `gorm:"column:marketing;default:false" json:"marketing"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Preferences) TableName() string { return "notification_preferences" }

// DefaultPreferences is the lazily-created row for a user seen for the
// first time: all booking and chat events on, marketing off.
func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:            userID,
		BookingCreated:    true,
		BookingConfirmed:  true,
		BookingDeclined:   true,
		BookingCancelled:  true,
		BookingInProgress: true,
		BookingCompleted:  true,
		NewMessage:        true,
		Marketing:         false,
	}
}

// Enabled reports whether the user receives notifications of type t.
// Unknown types are allowed through so new event types are not silently
// dropped for existing rows.
func (p *Preferences) Enabled(t Type) bool {
	switch t {
	case TypeBookingCreated:
		return p.BookingCreated
	case TypeBookingConfirmed:
		return p.BookingConfirmed
	case TypeBookingDeclined:
		return p.BookingDeclined
	case TypeBookingCancelled:
		return p.BookingCancelled
	case TypeBookingInProgress:
		return p.BookingInProgress
	case TypeBookingCompleted:
		return p.BookingCompleted
	case TypeNewMessage:
		return p.NewMessage
	case TypeMarketing:
		return p.Marketing
	default:
		return true
	}
}

// DeviceToken is a registered push target for one of a user's devices
type DeviceToken struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID     int64     `gorm:"column:user_id;index:idx_device_tokens_user" json:"user_id"`
	Token      string    `gorm:"column:token;uniqueIndex:idx_device_tokens_token" json:"token"`
	Platform   string    `gorm:"column:platform" json:"platform"` // ios, android, web
	IsActive   bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	LastUsedAt time.Time `gorm:"column:last_used_at" json:"last_used_at"`
}

func (DeviceToken) TableName() string { return "device_tokens" }
