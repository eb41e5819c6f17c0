package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/pkg/crypto"
	"fxvault.backend/pkg/jwt"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/redis"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

// SessionStore keeps server side login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

var generateReferralCode = crypto.GenerateReferralCode

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	jwtService   *jwt.JWTService
	sessionStore SessionStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	sessionStore SessionStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates an account. A supplied referral code must belong to an existing user.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	var referredBy *uuid.UUID
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		referrer, err := u.userRepo.GetByReferralCode(ctx, strings.ToUpper(code))
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.NewError("invalid referral code", domainerrors.ErrInvalidInput)
			}
			return nil, err
		}
		referredBy = &referrer.ID
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: passwordHash,
		Role:         entities.UserRoleUser,
		Balance:      decimal.Zero,
		KYCStatus:    entities.KYCNone,
		ReferredBy:   referredBy,
	}

	// Referral codes are random; a collision surfaces as ErrAlreadyExists and is retried.
	for attempt := 1; ; attempt++ {
		code, err := generateReferralCode(referralCodeLength)
		if err != nil {
			return nil, err
		}
		user.ReferralCode = code

		err = u.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domainerrors.ErrAlreadyExists) || attempt >= referralCodeAttempts {
			return nil, err
		}
		if _, lookupErr := u.userRepo.GetByEmail(ctx, email); lookupErr == nil {
			return nil, domainerrors.ErrAlreadyExists
		}
	}
}

// Login authenticates a user and returns tokens. With UseSession the tokens stay in
// Redis and only the session id is returned.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, domainerrors.ErrAccountBanned
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if !input.UseSession {
		return &entities.AuthResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			User:         user,
		}, nil
	}

	if u.sessionStore == nil {
		return nil, domainerrors.InternalServerError("session store not configured")
	}
	sessionID := uuid.NewString()
	if err := u.sessionStore.CreateSession(ctx, sessionID, &redis.SessionData{
		UserID:       user.ID,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		CreatedAt:    now(),
	}, u.jwtService.RefreshExpiry()); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Session created", zap.String("user_id", user.ID.String()))

	return &entities.AuthResponse{
		SessionID: sessionID,
		User:      user,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, domainerrors.ErrAccountBanned
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// ResolveSession returns the access token stored for a session id.
func (u *AuthUsecase) ResolveSession(ctx context.Context, sessionID string) (string, error) {
	if u.sessionStore == nil || sessionID == "" {
		return "", domainerrors.ErrUnauthorized
	}
	session, err := u.sessionStore.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return "", domainerrors.ErrUnauthorized
	}
	return session.AccessToken, nil
}

// Logout removes the server side session, if any.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if u.sessionStore == nil || sessionID == "" {
		return nil
	}
	return u.sessionStore.DeleteSession(ctx, sessionID)
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// ChangePassword replaces the password after checking the current one.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}
	if input.CurrentPassword == input.NewPassword {
		return domainerrors.NewError("new password must differ from the current one", domainerrors.ErrInvalidInput)
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, userID, hash)
}

// UpdateProfile stores the user editable profile fields.
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Phone = null.StringFromPtr(optionalString(input.Phone))
	user.Country = null.StringFromPtr(optionalString(input.Country))
	if err := u.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
