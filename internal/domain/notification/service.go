package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"glambook/internal/domain/booking"
)

// TaskRunner detaches token cleanup from the dispatch call
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

// Service decides whether a user gets a notification, persists the inbox
// entry and pushes to their devices. Inbox persistence and push delivery
// fail independently: a dead inbox write never blocks the push.
type Service struct {
	repo  Repository
	push  PushTransport
	tasks TaskRunner
	log   *zap.Logger
}

func NewService(repo Repository, push PushTransport, tasks TaskRunner, log *zap.Logger) *Service {
	return &Service{repo: repo, push: push, tasks: tasks, log: log}
}

type statusCopy struct {
	event Type
	title string
	body  string // supports {bookingNumber}
}

// copyByStatus is the fixed status-to-message table. Statuses absent here
// fall back to a generic message naming the raw status.
var copyByStatus = map[booking.BookingStatus]statusCopy{
	booking.StatusConfirmed: {
		event: TypeBookingConfirmed,
		title: "Booking confirmed",
		body:  "Your booking {bookingNumber} has been confirmed by the artist",
	},
	booking.StatusDeclined: {
		event: TypeBookingDeclined,
		title: "Booking declined",
		body:  "Your booking {bookingNumber} has been declined",
	},
	booking.StatusCancelled: {
		event: TypeBookingCancelled,
		title: "Booking cancelled",
		body:  "Booking {bookingNumber} has been cancelled",
	},
	booking.StatusInProgress: {
		event: TypeBookingInProgress,
		title: "Service started",
		body:  "Your appointment for booking {bookingNumber} is underway",
	},
	booking.StatusCompleted: {
		event: TypeBookingCompleted,
		title: "Service completed",
		body:  "Your booking {bookingNumber} is complete. How did it go? Leave a review",
	},
}

// Dispatch checks the recipient's preference for the event, persists an
// inbox row and pushes to the user's active device tokens. Disabled
// preference means a full no-op. Invalid tokens reported by the provider
// are deactivated without blocking the return.
func (s *Service) Dispatch(ctx context.Context, userID int64, event Type, title, body string, data map[string]any) error {
	prefs, err := s.getOrCreatePreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("load preferences for user %d: %w", userID, err)
	}
	if !prefs.Enabled(event) {
		return nil
	}

	var raw json.RawMessage
	if data != nil {
		if raw, err = json.Marshal(data); err != nil {
			return err
		}
	}

	n := &Notification{
		UserID: userID,
		Type:   event,
		Title:  title,
		Body:   body,
		Data:   raw,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		// Inbox write failure must not cost the user the push.
		s.log.Error("failed to persist notification",
			zap.Int64("user_id", userID),
			zap.String("event", string(event)),
			zap.Error(err))
	}

	return s.pushToDevices(ctx, userID, event, title, body, data)
}

func (s *Service) pushToDevices(ctx context.Context, userID int64, event Type, title, body string, data map[string]any) error {
	tokens, err := s.repo.ActiveTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("load device tokens for user %d: %w", userID, err)
	}
	if len(tokens) == 0 {
		return nil
	}

	values := make([]string, 0, len(tokens))
	for _, t := range tokens {
		values = append(values, t.Token)
	}

	pushData := map[string]string{"type": string(event)}
	for k, v := range data {
		pushData[k] = fmt.Sprint(v)
	}

	result, err := s.push.Send(ctx, values, PushPayload{Title: title, Body: body, Data: pushData})
	if err != nil {
		return fmt.Errorf("push send for user %d: %w", userID, err)
	}

	if len(result.InvalidTokens) > 0 {
		invalid := result.InvalidTokens
		s.tasks.Submit("notification.deactivate_tokens", func(ctx context.Context) error {
			return s.repo.DeactivateTokens(ctx, invalid)
		})
	}
	return nil
}

func (s *Service) getOrCreatePreferences(ctx context.Context, userID int64) (*Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, ErrPreferencesNotFound) {
		return nil, err
	}
	created := DefaultPreferences(userID)
	if err := s.repo.CreatePreferences(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// ---- booking.NotificationSender ----

// NotifyBookingCreated alerts the artist to a new booking request
func (s *Service) NotifyBookingCreated(ctx context.Context, b *booking.Booking) error {
	return s.Dispatch(ctx, b.ArtistID, TypeBookingCreated,
		"New booking request",
		fmt.Sprintf("You have a new %s request for %s", b.ServiceType, b.ScheduledDate.Format("Jan 2, 2006")),
		bookingData(b))
}

// NotifyBookingStatus tells recipientID that the booking reached status
func (s *Service) NotifyBookingStatus(ctx context.Context, recipientID int64, b *booking.Booking, status booking.BookingStatus) error {
	c, ok := copyByStatus[status]
	if !ok {
		c = statusCopy{
			event: TypeBookingUpdated,
			title: "Booking update",
			body:  fmt.Sprintf("Booking {bookingNumber} status changed to %s", status),
		}
	}
	body := strings.ReplaceAll(c.body, "{bookingNumber}", b.BookingNumber)
	return s.Dispatch(ctx, recipientID, c.event, c.title, body, bookingData(b))
}

// NotifyNewMessage alerts a user to an incoming chat message
func (s *Service) NotifyNewMessage(ctx context.Context, recipientID int64, senderName, preview, conversationID string) error {
	return s.Dispatch(ctx, recipientID, TypeNewMessage,
		senderName,
		preview,
		map[string]any{"conversation_id": conversationID})
}

func bookingData(b *booking.Booking) map[string]any {
	return map[string]any{
		"booking_id":     strconv.FormatInt(b.ID, 10),
		"booking_number": b.BookingNumber,
	}
}

