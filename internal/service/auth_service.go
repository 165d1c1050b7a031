package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"worktrack/internal/auth"
	apperrors "worktrack/internal/errors"
	"worktrack/internal/model"
	"worktrack/internal/repository"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = time.Hour

// AuthService handles signup, credential verification and password resets.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.Claims, *model.User, error)
	ForgotPassword(ctx context.Context, email string) (token string, err error)
	ValidateResetToken(ctx context.Context, token string) (*model.User, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Signup creates a new user with a hashed password. Self-registered users
// always get the "user" role.
func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the claims to cache in a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*auth.Claims, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	claims := &auth.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}
	return claims, user, nil
}

// ForgotPassword issues a time-bound reset token and stores it on the user
// record. The token is returned for out-of-band delivery; the handler must
// not reveal whether the email was known.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expires := time.Now().Add(ResetTokenTTL)
	fields := map[string]interface{}{
		"reset_password_token":   token,
		"reset_password_expires": expires,
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	return token, nil
}

// ValidateResetToken resolves a presented token to its user. Expired,
// consumed and never-issued tokens all return ErrInvalidResetToken.
func (s *authService) ValidateResetToken(ctx context.Context, token string) (*model.User, error) {
	user, err := s.userRepo.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}
	return user, nil
}

// ResetPassword consumes a valid token: the new password hash is written and
// both token fields cleared in the same UPDATE, so a token can never survive
// a successful password change.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	fields := map[string]interface{}{
		"password_hash":          hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	return nil
}
