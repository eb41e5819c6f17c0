package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/usecases"
	"fxvault.backend/pkg/crypto"
	"fxvault.backend/pkg/jwt"
	"fxvault.backend/pkg/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthUsecaseForTest(userRepo *MockUserRepository, sessions usecases.SessionStore) (*usecases.AuthUsecase, *jwt.JWTService) {
	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return usecases.NewAuthUsecase(userRepo, jwtSvc, sessions), jwtSvc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthUsecase_Register_EmailAlreadyExists(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)

	userRepo.On("GetByEmail", mock.Anything, "exists@mail.com").Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := uc.Register(context.Background(), &entities.RegisterInput{Email: " Exists@Mail.com ", Name: "Exists", Password: "Password123!"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthUsecase_Register_UnknownReferralCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)

	userRepo.On("GetByEmail", mock.Anything, "new@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	userRepo.On("GetByReferralCode", mock.Anything, "NOPE").Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Register(context.Background(), &entities.RegisterInput{Email: "new@mail.com", Name: "New", Password: "Password123!", ReferralCode: "nope"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_SuccessWithReferrer(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	restore := usecases.SetReferralCodeGeneratorForTest(func(int) (string, error) { return "ABCD2345", nil })
	defer restore()

	referrer := &entities.User{ID: uuid.New(), ReferralCode: "REF12345"}
	userRepo.On("GetByEmail", mock.Anything, "new@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	userRepo.On("GetByReferralCode", mock.Anything, "REF12345").Return(referrer, nil).Once()
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@mail.com" &&
			u.ReferralCode == "ABCD2345" &&
			u.ReferredBy != nil && *u.ReferredBy == referrer.ID &&
			u.Role == entities.UserRoleUser &&
			u.PasswordHash != "Password123!" &&
			u.ID != uuid.Nil
	})).Return(nil).Once()

	user, err := uc.Register(context.Background(), &entities.RegisterInput{Email: "new@mail.com", Name: " New ", Password: "Password123!", ReferralCode: "ref12345"})
	require.NoError(t, err)
	assert.Equal(t, "New", user.Name)
	assert.True(t, crypto.CheckPassword("Password123!", user.PasswordHash))
	assert.Equal(t, entities.KYCNone, user.KYCStatus)
}

func TestAuthUsecase_Register_RetriesReferralCodeCollision(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	codes := []string{"AAAA2222", "BBBB3333"}
	restore := usecases.SetReferralCodeGeneratorForTest(func(int) (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	})
	defer restore()

	userRepo.On("GetByEmail", mock.Anything, "new@mail.com").Return(nil, domainerrors.ErrNotFound).Twice()
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool { return u.ReferralCode == "AAAA2222" })).Return(domainerrors.ErrAlreadyExists).Once()
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool { return u.ReferralCode == "BBBB3333" })).Return(nil).Once()

	user, err := uc.Register(context.Background(), &entities.RegisterInput{Email: "new@mail.com", Name: "New", Password: "Password123!"})
	require.NoError(t, err)
	assert.Equal(t, "BBBB3333", user.ReferralCode)
}

func TestAuthUsecase_Login(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Email: "a@mail.com", PasswordHash: hashed(t, "Password123!"), Role: entities.UserRoleUser}

	t.Run("unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newAuthUsecaseForTest(userRepo, nil)
		userRepo.On("GetByEmail", mock.Anything, "x@mail.com").Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.Login(context.Background(), &entities.LoginInput{Email: "x@mail.com", Password: "whatever1"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newAuthUsecaseForTest(userRepo, nil)
		userRepo.On("GetByEmail", mock.Anything, "a@mail.com").Return(user, nil).Once()

		_, err := uc.Login(context.Background(), &entities.LoginInput{Email: "a@mail.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("banned", func(t *testing.T) {
		banned := *user
		banned.IsBanned = true
		userRepo := new(MockUserRepository)
		uc, _ := newAuthUsecaseForTest(userRepo, nil)
		userRepo.On("GetByEmail", mock.Anything, "a@mail.com").Return(&banned, nil).Once()

		_, err := uc.Login(context.Background(), &entities.LoginInput{Email: "a@mail.com", Password: "Password123!"})
		assert.ErrorIs(t, err, domainerrors.ErrAccountBanned)
	})

	t.Run("tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, jwtSvc := newAuthUsecaseForTest(userRepo, nil)
		userRepo.On("GetByEmail", mock.Anything, "a@mail.com").Return(user, nil).Once()

		resp, err := uc.Login(context.Background(), &entities.LoginInput{Email: "A@mail.com", Password: "Password123!"})
		require.NoError(t, err)
		assert.Empty(t, resp.SessionID)
		claims, err := jwtSvc.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("session", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		sessions := new(MockSessionStore)
		uc, _ := newAuthUsecaseForTest(userRepo, sessions)
		userRepo.On("GetByEmail", mock.Anything, "a@mail.com").Return(user, nil).Once()
		sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(d *redis.SessionData) bool {
			return d.UserID == user.ID && d.AccessToken != "" && d.RefreshToken != ""
		}), 24*time.Hour).Return(nil).Once()

		resp, err := uc.Login(context.Background(), &entities.LoginInput{Email: "a@mail.com", Password: "Password123!", UseSession: true})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.SessionID)
		assert.Empty(t, resp.AccessToken)
		assert.Empty(t, resp.RefreshToken)
		sessions.AssertExpectations(t)
	})

	t.Run("session without store", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc, _ := newAuthUsecaseForTest(userRepo, nil)
		userRepo.On("GetByEmail", mock.Anything, "a@mail.com").Return(user, nil).Once()

		_, err := uc.Login(context.Background(), &entities.LoginInput{Email: "a@mail.com", Password: "Password123!", UseSession: true})
		assert.Error(t, err)
	})
}

func TestAuthUsecase_RefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, jwtSvc := newAuthUsecaseForTest(userRepo, nil)
	user := &entities.User{ID: uuid.New(), Email: "a@mail.com", Role: entities.UserRoleUser}
	pair, err := jwtSvc.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)

	_, err = uc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized, "access token must not refresh")

	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	refreshed, err := uc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	banned := *user
	banned.IsBanned = true
	userRepo.On("GetByID", mock.Anything, user.ID).Return(&banned, nil).Once()
	_, err = uc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrAccountBanned)
}

func TestAuthUsecase_ResolveSessionAndLogout(t *testing.T) {
	sessions := new(MockSessionStore)
	uc, _ := newAuthUsecaseForTest(new(MockUserRepository), sessions)

	sessions.On("GetSession", mock.Anything, "sid").Return(&redis.SessionData{AccessToken: "access"}, nil).Once()
	sessions.On("GetSession", mock.Anything, "gone").Return(nil, errors.New("session not found")).Once()
	sessions.On("DeleteSession", mock.Anything, "sid").Return(nil).Once()

	token, err := uc.ResolveSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "access", token)

	_, err = uc.ResolveSession(context.Background(), "gone")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = uc.ResolveSession(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	assert.NoError(t, uc.Logout(context.Background(), "sid"))
	assert.NoError(t, uc.Logout(context.Background(), ""))
	sessions.AssertExpectations(t)
}

func TestAuthUsecase_ChangePassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	user := &entities.User{ID: uuid.New(), PasswordHash: hashed(t, "Password123!")}
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	err := uc.ChangePassword(context.Background(), user.ID, &entities.ChangePasswordInput{CurrentPassword: "wrong-pass", NewPassword: "NewPassword1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	err = uc.ChangePassword(context.Background(), user.ID, &entities.ChangePasswordInput{CurrentPassword: "Password123!", NewPassword: "Password123!"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	userRepo.On("UpdatePassword", mock.Anything, user.ID, mock.MatchedBy(func(hash string) bool {
		return crypto.CheckPassword("NewPassword1", hash)
	})).Return(nil).Once()
	assert.NoError(t, uc.ChangePassword(context.Background(), user.ID, &entities.ChangePasswordInput{CurrentPassword: "Password123!", NewPassword: "NewPassword1"}))
	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_UpdateProfile(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	user := &entities.User{ID: uuid.New(), Name: "Old"}
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	userRepo.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := uc.UpdateProfile(context.Background(), user.ID, &entities.UpdateProfileInput{Name: " New Name ", Phone: "+1 555", Country: " "})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "+1 555", updated.Phone.String)
	assert.False(t, updated.Country.Valid)
}
