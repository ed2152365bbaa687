package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"glambook/internal/domain/booking"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreate(ctx context.Context, customerID, artistID int64, bookingID *int64) (*Conversation, error) {
	args := m.Called(ctx, customerID, artistID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conversation), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conversation), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int64) ([]*Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Conversation), args.Error(1)
}

func (m *MockRepository) CreateMessage(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Message), args.Error(1)
}

func (m *MockRepository) IncrementUnread(ctx context.Context, conversationID string, userIDs []int64) error {
	args := m.Called(ctx, conversationID, userIDs)
	return args.Error(0)
}

func (m *MockRepository) ResetUnread(ctx context.Context, conversationID string, userID int64) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) DisplayName(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockMessageNotifier struct {
	mock.Mock
}

func (m *MockMessageNotifier) NotifyNewMessage(ctx context.Context, recipientID int64, senderName, preview, conversationID string) error {
	args := m.Called(ctx, recipientID, senderName, preview, conversationID)
	return args.Error(0)
}

type inlineRunner struct{}

func (inlineRunner) Submit(name string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

func newTestChatService(repo *MockRepository, users *MockUserDirectory, notifier *MockMessageNotifier) *Service {
	return NewService(repo, users, notifier, inlineRunner{}, NewHub(zap.NewNop()), zap.NewNop())
}

func testConversation() *Conversation {
	return &Conversation{
		ID:         "conv-1",
		CustomerID: 1,
		ArtistID:   2,
	}
}

func TestService_PostStatusMessage_PostsSystemMessage(t *testing.T) {
	repo := new(MockRepository)

	var captured *Message
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), mock.Anything).
		Return(testConversation(), nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*Message) }).
		Return(nil)
	repo.On("IncrementUnread", mock.Anything, "conv-1", []int64{1, 2}).Return(nil)

	svc := newTestChatService(repo, new(MockUserDirectory), new(MockMessageNotifier))

	b := &booking.Booking{
		ID:            999,
		BookingNumber: "BK-1-0001",
		CustomerID:    1,
		ArtistID:      2,
		ScheduledDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
	}
	err := svc.PostStatusMessage(context.Background(), b, booking.StatusPending)

	assert.NoError(t, err)
	assert.NotNil(t, captured)
	assert.Equal(t, SenderSystem, captured.SenderRole)
	assert.Nil(t, captured.SenderID)
	assert.Contains(t, captured.Content, "BK-1-0001")
	assert.Contains(t, captured.Content, "Thursday, Oct 15, 2026")
	assert.NotContains(t, captured.Content, "{bookingNumber}")
	assert.NotContains(t, captured.Content, "{scheduledDate}")
}

func TestService_PostStatusMessage_UnmappedStatusIsNoOp(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestChatService(repo, new(MockUserDirectory), new(MockMessageNotifier))

	b := &booking.Booking{ID: 999, CustomerID: 1, ArtistID: 2}
	err := svc.PostStatusMessage(context.Background(), b, booking.StatusConfirmed)

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestService_SendMessage_BumpsCounterpartAndNotifies(t *testing.T) {
	repo := new(MockRepository)
	users := new(MockUserDirectory)
	notifier := new(MockMessageNotifier)

	repo.On("GetByID", mock.Anything, "conv-1").Return(testConversation(), nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	repo.On("IncrementUnread", mock.Anything, "conv-1", []int64{2}).Return(nil)
	users.On("DisplayName", mock.Anything, int64(1)).Return("Aliya", nil)
	notifier.On("NotifyNewMessage", mock.Anything, int64(2), "Aliya", "hello there", "conv-1").Return(nil)

	svc := newTestChatService(repo, users, notifier)
	msg, err := svc.SendMessage(context.Background(), 1, "conv-1", "hello there")

	assert.NoError(t, err)
	assert.Equal(t, SenderCustomer, msg.SenderRole)
	notifier.AssertCalled(t, "NotifyNewMessage", mock.Anything, int64(2), "Aliya", "hello there", "conv-1")
}

func TestService_SendMessage_NonParticipantRejected(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, "conv-1").Return(testConversation(), nil)

	svc := newTestChatService(repo, new(MockUserDirectory), new(MockMessageNotifier))
	_, err := svc.SendMessage(context.Background(), 42, "conv-1", "hi")

	assert.ErrorIs(t, err, ErrNotParticipant)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestService_SendMessage_EmptyContentRejected(t *testing.T) {
	svc := newTestChatService(new(MockRepository), new(MockUserDirectory), new(MockMessageNotifier))

	_, err := svc.SendMessage(context.Background(), 1, "conv-1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestService_StartConversation_SelfRejected(t *testing.T) {
	svc := newTestChatService(new(MockRepository), new(MockUserDirectory), new(MockMessageNotifier))

	_, err := svc.StartConversation(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrCannotChatSelf)
}

func TestService_ListMessages_ResetsUnread(t *testing.T) {
	repo := new(MockRepository)

	repo.On("GetByID", mock.Anything, "conv-1").Return(testConversation(), nil)
	repo.On("ListMessages", mock.Anything, "conv-1", 50, 0).Return([]*Message{}, nil)
	repo.On("ResetUnread", mock.Anything, "conv-1", int64(1)).Return(nil)

	svc := newTestChatService(repo, new(MockUserDirectory), new(MockMessageNotifier))
	_, err := svc.ListMessages(context.Background(), 1, "conv-1", 50, 0)

	assert.NoError(t, err)
	repo.AssertCalled(t, "ResetUnread", mock.Anything, "conv-1", int64(1))
}

func TestService_ListMessages_NonParticipantRejected(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, "conv-1").Return(testConversation(), nil)

	svc := newTestChatService(repo, new(MockUserDirectory), new(MockMessageNotifier))
	_, err := svc.ListMessages(context.Background(), 42, "conv-1", 50, 0)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestConversation_Counterpart(t *testing.T) {
	c := testConversation()
	assert.Equal(t, int64(2), c.Counterpart(1))
	assert.Equal(t, int64(1), c.Counterpart(2))
}
