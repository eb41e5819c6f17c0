package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// DepositRepositoryImpl implements DepositRepository
type DepositRepositoryImpl struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepositoryImpl {
	return &DepositRepositoryImpl{db: db}
}

func (r *DepositRepositoryImpl) Create(ctx context.Context, d *entities.Deposit) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	m := &models.Deposit{
		ID:                d.ID,
		UserID:            d.UserID,
		WalletID:          d.WalletID,
		Amount:            d.Amount,
		Currency:          d.Currency,
		Method:            string(d.Method),
		Status:            string(d.Status),
		ProofURL:          d.ProofURL.Ptr(),
		ProviderInvoiceID: d.ProviderInvoiceID.Ptr(),
		ProviderPaymentID: d.ProviderPaymentID.Ptr(),
		TxHash:            d.TxHash.Ptr(),
		AdminNote:         d.AdminNote.Ptr(),
		ReviewedAt:        d.ReviewedAt.Ptr(),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *DepositRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Deposit, error) {
	var m models.Deposit
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toDepositEntity(&m), nil
}

func (r *DepositRepositoryImpl) GetByProviderPaymentID(ctx context.Context, paymentID string) (*entities.Deposit, error) {
	var m models.Deposit
	if err := lockedDB(ctx, r.db).Where("provider_payment_id = ?", paymentID).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toDepositEntity(&m), nil
}

func (r *DepositRepositoryImpl) Transition(ctx context.Context, id uuid.UUID, from []entities.DepositStatus, to entities.DepositStatus, note string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      string(to),
		"reviewed_at": now,
		"updated_at":  now,
	}
	if note != "" {
		updates["admin_note"] = note
	}
	result := GetDB(ctx, r.db).Model(&models.Deposit{}).
		Where("id = ? AND status IN ?", id, depositStatusStrings(from)).
		Updates(updates)
	return transitionResult(ctx, r.db, result, &models.Deposit{}, id)
}

func (r *DepositRepositoryImpl) AttachProviderPayment(ctx context.Context, id uuid.UUID, paymentID, txHash string) error {
	updates := map[string]interface{}{
		"provider_payment_id": paymentID,
		"updated_at":          time.Now().UTC(),
	}
	if txHash != "" {
		updates["tx_hash"] = txHash
	}
	result := GetDB(ctx, r.db).Model(&models.Deposit{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *DepositRepositoryImpl) List(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		return db
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.Deposit{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Deposit
	query := GetDB(ctx, r.db).Scopes(scope).Order("created_at DESC")
	if err := applyPage(query, filter.Page, filter.Limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	deposits := make([]*entities.Deposit, 0, len(ms))
	for i := range ms {
		deposits = append(deposits, toDepositEntity(&ms[i]))
	}
	return deposits, total, nil
}

func (r *DepositRepositoryImpl) SumByUser(ctx context.Context, userID uuid.UUID, status entities.DepositStatus) (decimal.Decimal, error) {
	query := GetDB(ctx, r.db).Model(&models.Deposit{}).Where("user_id = ? AND status = ?", userID, string(status))
	return sumColumn(query, "amount")
}

func (r *DepositRepositoryImpl) CountAndSum(ctx context.Context, status entities.DepositStatus) (int64, decimal.Decimal, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.Deposit{}).Where("status = ?", string(status)).Count(&count).Error; err != nil {
		return 0, decimal.Zero, err
	}
	sum, err := sumColumn(GetDB(ctx, r.db).Model(&models.Deposit{}).Where("status = ?", string(status)), "amount")
	return count, sum, err
}

func toDepositEntity(m *models.Deposit) *entities.Deposit {
	return &entities.Deposit{
		ID:                m.ID,
		UserID:            m.UserID,
		WalletID:          m.WalletID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Method:            entities.DepositMethod(m.Method),
		Status:            entities.DepositStatus(m.Status),
		ProofURL:          null.StringFromPtr(m.ProofURL),
		ProviderInvoiceID: null.StringFromPtr(m.ProviderInvoiceID),
		ProviderPaymentID: null.StringFromPtr(m.ProviderPaymentID),
		TxHash:            null.StringFromPtr(m.TxHash),
		AdminNote:         null.StringFromPtr(m.AdminNote),
		ReviewedAt:        null.TimeFromPtr(m.ReviewedAt),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func depositStatusStrings(statuses []entities.DepositStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// transitionResult turns a conditional UPDATE result into ErrNotFound or
// ErrInvalidTransition when nothing matched.
func transitionResult(ctx context.Context, fallback *gorm.DB, result *gorm.DB, model interface{}, id uuid.UUID) error {
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := GetDB(ctx, fallback).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrInvalidTransition
}
