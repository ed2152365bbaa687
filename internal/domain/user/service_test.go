package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"glambook/internal/pkg/jwt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if u != nil && args.Error(0) == nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) DisplayName(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func newTestUserService(repo *MockRepository) *Service {
	return NewService(repo, jwt.NewService("test-secret", time.Hour), zap.NewNop())
}

func TestService_Register_Success(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email == "aliya@example.com" && u.Role == RoleCustomer && u.PasswordHash != ""
	})).Return(nil)

	svc := newTestUserService(repo)
	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Aliya",
		Email:    "Aliya@Example.com",
		Password: "password123",
		Role:     "customer",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "aliya@example.com", result.User.Email)
	assert.True(t, result.User.CheckPassword("password123"))
}

func TestService_Register_AdminRoleRejected(t *testing.T) {
	svc := newTestUserService(new(MockRepository))

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Evil",
		Email:    "evil@example.com",
		Password: "password123",
		Role:     "admin",
	})

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestService_Login_Success(t *testing.T) {
	u := &User{ID: 42, Email: "aliya@example.com", Role: RoleCustomer}
	_ = u.SetPassword("password123")

	repo := new(MockRepository)
	repo.On("GetByEmail", mock.Anything, "aliya@example.com").Return(u, nil)

	svc := newTestUserService(repo)
	result, err := svc.Login(context.Background(), "aliya@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestService_Login_WrongPassword(t *testing.T) {
	u := &User{ID: 42, Email: "aliya@example.com"}
	_ = u.SetPassword("password123")

	repo := new(MockRepository)
	repo.On("GetByEmail", mock.Anything, "aliya@example.com").Return(u, nil)

	svc := newTestUserService(repo)
	_, err := svc.Login(context.Background(), "aliya@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrNotFound)

	svc := newTestUserService(repo)
	_, err := svc.Login(context.Background(), "ghost@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
