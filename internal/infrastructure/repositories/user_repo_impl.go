package repositories

import (
	"context"
	"strings"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := &models.User{
		ID:           user.ID,
		Email:        strings.ToLower(user.Email),
		Name:         user.Name,
		Phone:        user.Phone.Ptr(),
		Country:      user.Country.Ptr(),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Balance:      user.Balance,
		KYCStatus:    string(user.KYCStatus),
		IsBanned:     user.IsBanned,
		ReferralCode: user.ReferralCode,
		ReferredBy:   user.ReferredBy,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toUserEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toUserEntity(&m), nil
}

// GetByReferralCode resolves the owner of a referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("referral_code = ?", strings.ToUpper(code)).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toUserEntity(&m), nil
}

// UpdateProfile updates the user editable fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	return r.update(ctx, user.ID, map[string]interface{}{
		"name":    user.Name,
		"phone":   user.Phone.Ptr(),
		"country": user.Country.Ptr(),
	})
}

// UpdatePassword stores a new bcrypt hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *UserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return r.update(ctx, id, map[string]interface{}{"is_banned": banned})
}

func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error {
	return r.update(ctx, id, map[string]interface{}{"role": string(role)})
}

func (r *UserRepository) SetKYCStatus(ctx context.Context, id uuid.UUID, status entities.KYCStatus) error {
	return r.update(ctx, id, map[string]interface{}{"kyc_status": string(status)})
}

func (r *UserRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Credit adds amount to the balance
func (r *UserRepository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerrors.ErrInvalidInput
	}
	result := GetDB(ctx, r.db).Exec(
		"UPDATE users SET balance = balance + ?, updated_at = ? WHERE id = ?",
		amount, time.Now().UTC(), id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Debit subtracts amount when the balance covers it. Zero affected rows means either
// the user is unknown or the balance is short; the former is resolved with a lookup.
func (r *UserRepository) Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerrors.ErrInvalidInput
	}
	db := GetDB(ctx, r.db)
	result := db.Exec(
		"UPDATE users SET balance = balance - ?, updated_at = ? WHERE id = ? AND balance >= ?",
		amount, time.Now().UTC(), id, amount,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrInsufficientFunds
}

// List lists users with optional search filter
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Search == "" {
			return db
		}
		term := "%" + strings.ToLower(filter.Search) + "%"
		return db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.User
	query := GetDB(ctx, r.db).Scopes(scope).Order("created_at DESC")
	if err := applyPage(query, filter.Page, filter.Limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(ms))
	for i := range ms {
		users = append(users, toUserEntity(&ms[i]))
	}
	return users, total, nil
}

// ListReferrals lists users who registered with referrerID's code
func (r *UserRepository) ListReferrals(ctx context.Context, referrerID uuid.UUID) ([]*entities.User, error) {
	var ms []models.User
	if err := GetDB(ctx, r.db).Where("referred_by = ?", referrerID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	users := make([]*entities.User, 0, len(ms))
	for i := range ms {
		users = append(users, toUserEntity(&ms[i]))
	}
	return users, nil
}

func (r *UserRepository) CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.User{}).Where("referred_by = ?", referrerID).Count(&count).Error
	return count, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	return sumColumn(GetDB(ctx, r.db).Model(&models.User{}), "balance")
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		Phone:        null.StringFromPtr(m.Phone),
		Country:      null.StringFromPtr(m.Country),
		PasswordHash: m.PasswordHash,
		Role:         entities.UserRole(m.Role),
		Balance:      m.Balance,
		KYCStatus:    entities.KYCStatus(m.KYCStatus),
		IsBanned:     m.IsBanned,
		ReferralCode: m.ReferralCode,
		ReferredBy:   m.ReferredBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
