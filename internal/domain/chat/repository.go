package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository handles all DB operations for the chat domain
type Repository interface {
	GetOrCreate(ctx context.Context, customerID, artistID int64, bookingID *int64) (*Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	ListByUser(ctx context.Context, userID int64) ([]*Conversation, error)

	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error)

	IncrementUnread(ctx context.Context, conversationID string, userIDs []int64) error
	ResetUnread(ctx context.Context, conversationID string, userID int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetOrCreate resolves the conversation for a customer-artist pair, creating
// it on first contact. A concurrent duplicate create resolves to the row
// that won the unique-index race.
func (r *repository) GetOrCreate(ctx context.Context, customerID, artistID int64, bookingID *int64) (*Conversation, error) {
	existing, err := r.getByPair(ctx, customerID, artistID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if bookingID != nil && (existing.BookingID == nil || *existing.BookingID != *bookingID) {
			err = r.db.WithContext(ctx).
				Model(&Conversation{}).
				Where("id = ?", existing.ID).
				Update("booking_id", *bookingID).Error
			if err != nil {
				return nil, err
			}
			existing.BookingID = bookingID
		}
		return existing, nil
	}

	conv := &Conversation{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		ArtistID:   artistID,
		BookingID:  bookingID,
		CreatedAt:  time.Now(),
	}
	err = r.db.WithContext(ctx).Create(conv).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		winner, getErr := r.getByPair(ctx, customerID, artistID)
		if getErr != nil {
			return nil, getErr
		}
		if winner == nil {
			return nil, err
		}
		return winner, nil
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *repository) getByPair(ctx context.Context, customerID, artistID int64) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND artist_id = ?", customerID, artistID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Conversation, error) {
	var list []*Conversation
	err := r.db.WithContext(ctx).
		Where("customer_id = ? OR artist_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("id = ?", m.ConversationID).
		Update("last_message_at", m.CreatedAt).Error
}

func (r *repository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []*Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

// IncrementUnread bumps the unread counter for each listed participant
func (r *repository) IncrementUnread(ctx context.Context, conversationID string, userIDs []int64) error {
	conv, err := r.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		column := ""
		switch userID {
		case conv.CustomerID:
			column = "customer_unread"
		case conv.ArtistID:
			column = "artist_unread"
		default:
			continue
		}
		err := r.db.WithContext(ctx).
			Model(&Conversation{}).
			Where("id = ?", conversationID).
			Update(column, gorm.Expr(column+" + 1")).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ResetUnread(ctx context.Context, conversationID string, userID int64) error {
	conv, err := r.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	column := ""
	switch userID {
	case conv.CustomerID:
		column = "customer_unread"
	case conv.ArtistID:
		column = "artist_unread"
	default:
		return ErrNotParticipant
	}
	return r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("id = ?", conversationID).
		Update(column, 0).Error
}
