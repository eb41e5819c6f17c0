package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// WalletRepository implements platform wallet operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	now := time.Now().UTC()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	m := &models.Wallet{
		ID:        wallet.ID,
		Kind:      string(wallet.Kind),
		Name:      wallet.Name,
		Currency:  wallet.Currency,
		Network:   wallet.Network.Ptr(),
		Address:   wallet.Address.Ptr(),
		MinAmount: wallet.MinAmount,
		IsActive:  wallet.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toWalletEntity(&m), nil
}

// Update overwrites the editable wallet fields
func (r *WalletRepository) Update(ctx context.Context, wallet *entities.Wallet) error {
	result := GetDB(ctx, r.db).Model(&models.Wallet{}).Where("id = ?", wallet.ID).Updates(map[string]interface{}{
		"kind":       string(wallet.Kind),
		"name":       wallet.Name,
		"currency":   wallet.Currency,
		"network":    wallet.Network.Ptr(),
		"address":    wallet.Address.Ptr(),
		"min_amount": wallet.MinAmount,
		"is_active":  wallet.IsActive,
		"updated_at": time.Now().UTC(),
	})
	return affectedOrNotFound(result)
}

// Delete removes a wallet
func (r *WalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affectedOrNotFound(GetDB(ctx, r.db).Delete(&models.Wallet{}, "id = ?", id))
}

// SetActive toggles availability
func (r *WalletRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := GetDB(ctx, r.db).Model(&models.Wallet{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
	return affectedOrNotFound(result)
}

// List lists wallets by kind
func (r *WalletRepository) List(ctx context.Context, kind entities.WalletKind, activeOnly bool) ([]*entities.Wallet, error) {
	query := GetDB(ctx, r.db).Order("created_at ASC")
	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var ms []models.Wallet
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, toWalletEntity(&ms[i]))
	}
	return wallets, nil
}

func toWalletEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:        m.ID,
		Kind:      entities.WalletKind(m.Kind),
		Name:      m.Name,
		Currency:  m.Currency,
		Network:   null.StringFromPtr(m.Network),
		Address:   null.StringFromPtr(m.Address),
		MinAmount: m.MinAmount,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func affectedOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
