package service_test

import (
	"context"
	"errors"
	"tareasSync/internal/models/user"
	"tareasSync/internal/repository"
	"tareasSync/internal/repository/user/inmemory"
	"tareasSync/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// plainHasher хеш = "h:" + пароль, чтобы не ждать bcrypt
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "h:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "h:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID int64, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

// TestUserService_Register тестирует регистрацию
func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success - email normalized", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		tokens.On("Issue", int64(1), "ana@example.com").Return("tok", nil)

		svc := service.NewUserService(inmemory.NewUserStorage(), plainHasher{}, tokens)
		u, token, err := svc.Register(ctx, "  Ana@Example.COM ", "secreto1")

		require.NoError(t, err)
		assert.Equal(t, "tok", token)
		assert.Equal(t, "ana@example.com", u.Email)
		assert.Equal(t, "h:secreto1", u.PasswordHash)
		assert.False(t, u.CreatedAt.IsZero())
		tokens.AssertExpectations(t)
	})

	t.Run("error - duplicate email", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		tokens.On("Issue", mock.Anything, mock.Anything).Return("tok", nil)

		svc := service.NewUserService(inmemory.NewUserStorage(), plainHasher{}, tokens)
		_, _, err := svc.Register(ctx, "ana@example.com", "secreto1")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "ANA@example.com", "otro123")
		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, service.CodeEmailTaken, busErr.Code)
	})

	t.Run("error - validation", func(t *testing.T) {
		tests := []struct {
			email, password, field string
		}{
			{"", "secreto1", "email"},
			{"ana@example.com", "12345", "password"},
		}
		for _, tt := range tests {
			svc := service.NewUserService(inmemory.NewUserStorage(), plainHasher{}, new(MockTokenIssuer))
			_, _, err := svc.Register(ctx, tt.email, tt.password)

			var busErr *service.BusinessError
			require.ErrorAs(t, err, &busErr)
			assert.Equal(t, service.CodeValidation, busErr.Code)
			assert.Equal(t, tt.field, busErr.Details["field"])
		}
	})
}

// TestUserService_Login тестирует вход
func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	users := inmemory.NewUserStorage()
	require.NoError(t, users.Create(ctx, &user.User{Email: "ana@example.com", PasswordHash: "h:secreto1"}))

	tokens := new(MockTokenIssuer)
	tokens.On("Issue", int64(1), "ana@example.com").Return("tok", nil)
	svc := service.NewUserService(users, plainHasher{}, tokens)

	t.Run("success", func(t *testing.T) {
		u, token, err := svc.Login(ctx, "Ana@example.com", "secreto1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, "tok", token)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, _, errPassword := svc.Login(ctx, "ana@example.com", "nope")
		_, _, errEmail := svc.Login(ctx, "nadie@example.com", "secreto1")

		var a, b *service.BusinessError
		require.ErrorAs(t, errPassword, &a)
		require.ErrorAs(t, errEmail, &b)
		assert.Equal(t, service.CodeInvalidCredentials, a.Code)
		assert.Equal(t, a.Message, b.Message)
	})
}

func TestUserStorage_DuplicateEmail(t *testing.T) {
	users := inmemory.NewUserStorage()
	require.NoError(t, users.Create(context.Background(), &user.User{Email: "a@b.c"}))
	err := users.Create(context.Background(), &user.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}
