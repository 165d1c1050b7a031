package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		userName      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful signup",
			email:    "new@example.com",
			password: "password123",
			userName: "New User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already taken",
			email:    "existing@example.com",
			password: "password123",
			userName: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo)
			user, err := service.Signup(context.Background(), tt.userName, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, auth.CheckPassword(tt.password, user.PasswordHash))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           7,
					Name:         "Test User",
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleAdmin,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "not-the-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo)
			claims, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, claims)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotNil(t, claims)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, user.Name, claims.Name)
				assert.Equal(t, user.Role, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("issues a token with an expiry", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
			ID:    3,
			Email: "test@example.com",
		}, nil)

		var storedFields map[string]interface{}
		mockRepo.On("UpdateFields", mock.Anything, uint(3), mock.AnythingOfType("map[string]interface {}")).
			Run(func(args mock.Arguments) {
				storedFields = args.Get(2).(map[string]interface{})
			}).Return(nil)

		service := NewAuthService(mockRepo)
		before := time.Now()
		token, err := service.ForgotPassword(context.Background(), "test@example.com")

		assert.NoError(t, err)
		assert.Len(t, token, 40)
		assert.Equal(t, token, storedFields["reset_password_token"])

		expires, ok := storedFields["reset_password_expires"].(time.Time)
		assert.True(t, ok)
		assert.True(t, expires.After(before))
		assert.True(t, expires.Before(before.Add(ResetTokenTTL+time.Minute)))

		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockRepo)
		token, err := service.ForgotPassword(context.Background(), "nobody@example.com")

		assert.Equal(t, apperrors.ErrUserNotFound, err)
		assert.Empty(t, token)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_ValidateResetToken(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "valid token",
			token: "deadbeef",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByResetToken", mock.Anything, "deadbeef", mock.AnythingOfType("time.Time")).
					Return(&model.User{ID: 3}, nil)
			},
			expectedError: nil,
		},
		{
			name:  "unknown, expired or consumed token",
			token: "stale",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByResetToken", mock.Anything, "stale", mock.AnythingOfType("time.Time")).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidResetToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo)
			user, err := service.ValidateResetToken(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("consumes the token in one update", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByResetToken", mock.Anything, "deadbeef", mock.AnythingOfType("time.Time")).
			Return(&model.User{ID: 3}, nil)

		var storedFields map[string]interface{}
		mockRepo.On("UpdateFields", mock.Anything, uint(3), mock.AnythingOfType("map[string]interface {}")).
			Run(func(args mock.Arguments) {
				storedFields = args.Get(2).(map[string]interface{})
			}).Return(nil)

		service := NewAuthService(mockRepo)
		err := service.ResetPassword(context.Background(), "deadbeef", "new-password-1")

		assert.NoError(t, err)

		// Password and token fields change in the same write: a reset token
		// never survives the password change it performed.
		hash, ok := storedFields["password_hash"].(string)
		assert.True(t, ok)
		assert.True(t, auth.CheckPassword("new-password-1", hash))
		assert.Contains(t, storedFields, "reset_password_token")
		assert.Nil(t, storedFields["reset_password_token"])
		assert.Contains(t, storedFields, "reset_password_expires")
		assert.Nil(t, storedFields["reset_password_expires"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects an invalid token without writing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByResetToken", mock.Anything, "stale", mock.AnythingOfType("time.Time")).
			Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockRepo)
		err := service.ResetPassword(context.Background(), "stale", "new-password-1")

		assert.Equal(t, apperrors.ErrInvalidResetToken, err)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}
