package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"glambook/internal/domain/booking"
)

// MessageNotifier is implemented by the notification service
type MessageNotifier interface {
	NotifyNewMessage(ctx context.Context, recipientID int64, senderName, preview, conversationID string) error
}

// UserDirectory resolves display names for notification copy
type UserDirectory interface {
	DisplayName(ctx context.Context, userID int64) (string, error)
}

// TaskRunner detaches the new-message notification from the send path
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

// Service handles chat business logic, including the system messages the
// booking orchestrator posts on status changes.
type Service struct {
	repo     Repository
	users    UserDirectory
	notifier MessageNotifier
	tasks    TaskRunner
	hub      *Hub
	log      *zap.Logger
}

func NewService(repo Repository, users UserDirectory, notifier MessageNotifier, tasks TaskRunner, hub *Hub, log *zap.Logger) *Service {
	return &Service{repo: repo, users: users, notifier: notifier, tasks: tasks, hub: hub, log: log}
}

// statusTemplates maps a booking status to the system message posted into
// the customer-artist conversation. Statuses without a template post
// nothing.
var statusTemplates = map[booking.BookingStatus]string{
	booking.StatusPending:    "Booking {bookingNumber} requested for {scheduledDate}. The artist will confirm shortly.",
	booking.StatusDeclined:   "Booking {bookingNumber} was declined.",
	booking.StatusCancelled:  "Booking {bookingNumber} for {scheduledDate} was cancelled.",
	booking.StatusInProgress: "Your appointment for booking {bookingNumber} has started.",
	booking.StatusCompleted:  "Booking {bookingNumber} is complete. Thank you!",
}

// PostStatusMessage resolves (or lazily creates) the conversation between
// the booking's customer and artist and posts a localized system message
// for the status. Callers treat this as fire-and-forget: errors are for
// the dispatcher's log, never the request path.
func (s *Service) PostStatusMessage(ctx context.Context, b *booking.Booking, status booking.BookingStatus) error {
	tmpl, ok := statusTemplates[status]
	if !ok {
		return nil
	}

	bookingID := b.ID
	conv, err := s.repo.GetOrCreate(ctx, b.CustomerID, b.ArtistID, &bookingID)
	if err != nil {
		return err
	}

	content := strings.ReplaceAll(tmpl, "{bookingNumber}", b.BookingNumber)
	content = strings.ReplaceAll(content, "{scheduledDate}", b.ScheduledDate.Format("Monday, Jan 2, 2006"))

	msg := &Message{
		ConversationID: conv.ID,
		SenderRole:     SenderSystem,
		Content:        content,
		BookingID:      &bookingID,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return err
	}
	if err := s.repo.IncrementUnread(ctx, conv.ID, conv.Participants()); err != nil {
		s.log.Warn("failed to bump unread counters",
			zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	s.hub.BroadcastNewMessage(conv.Participants(), msg)
	return nil
}

// StartConversation resolves or creates the thread between the caller and
// the counterpart. customer/artist ordering is fixed by role.
func (s *Service) StartConversation(ctx context.Context, customerID, artistID int64) (*Conversation, error) {
	if customerID == artistID {
		return nil, ErrCannotChatSelf
	}
	return s.repo.GetOrCreate(ctx, customerID, artistID, nil)
}

// SendMessage posts a user message and alerts the counterpart
func (s *Service) SendMessage(ctx context.Context, senderID int64, conversationID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var role SenderRole
	switch senderID {
	case conv.CustomerID:
		role = SenderCustomer
	case conv.ArtistID:
		role = SenderArtist
	default:
		return nil, ErrNotParticipant
	}

	msg := &Message{
		ConversationID: conv.ID,
		SenderRole:     role,
		SenderID:       &senderID,
		Content:        content,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	recipient := conv.Counterpart(senderID)
	if err := s.repo.IncrementUnread(ctx, conv.ID, []int64{recipient}); err != nil {
		s.log.Warn("failed to bump unread counter",
			zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	s.hub.BroadcastNewMessage(conv.Participants(), msg)

	convID := conv.ID
	preview := content
	if len(preview) > 120 {
		preview = preview[:120]
	}
	s.tasks.Submit("chat.notify_new_message", func(ctx context.Context) error {
		name, err := s.users.DisplayName(ctx, senderID)
		if err != nil {
			name = "New message"
		}
		return s.notifier.NotifyNewMessage(ctx, recipient, name, preview, convID)
	})

	return msg, nil
}

// ListConversations returns the caller's threads with unread counts
func (s *Service) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListMessages returns message history for a participant and clears their
// unread counter.
func (s *Service) ListMessages(ctx context.Context, userID int64, conversationID string, limit, offset int) ([]*Message, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if userID != conv.CustomerID && userID != conv.ArtistID {
		return nil, ErrNotParticipant
	}

	msgs, err := s.repo.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ResetUnread(ctx, conversationID, userID); err != nil {
		s.log.Warn("failed to reset unread counter",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}
	return msgs, nil
}
