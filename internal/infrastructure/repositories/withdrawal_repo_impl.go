package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// WithdrawalRepositoryImpl implements WithdrawalRepository
type WithdrawalRepositoryImpl struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepositoryImpl {
	return &WithdrawalRepositoryImpl{db: db}
}

func (r *WithdrawalRepositoryImpl) Create(ctx context.Context, w *entities.Withdrawal) error {
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	m := &models.Withdrawal{
		ID:          w.ID,
		UserID:      w.UserID,
		WalletID:    w.WalletID,
		Amount:      w.Amount,
		Fee:         w.Fee,
		NetAmount:   w.NetAmount,
		Destination: w.Destination,
		Status:      string(w.Status),
		TxHash:      w.TxHash.Ptr(),
		AdminNote:   w.AdminNote.Ptr(),
		ProcessedAt: w.ProcessedAt.Ptr(),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *WithdrawalRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Withdrawal, error) {
	var m models.Withdrawal
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toWithdrawalEntity(&m), nil
}

func (r *WithdrawalRepositoryImpl) Transition(ctx context.Context, id uuid.UUID, from []entities.WithdrawalStatus, to entities.WithdrawalStatus, txHash, note string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": now,
	}
	if to.IsFinal() {
		updates["processed_at"] = now
	}
	if txHash != "" {
		updates["tx_hash"] = txHash
	}
	if note != "" {
		updates["admin_note"] = note
	}

	fromStrings := make([]string, 0, len(from))
	for _, s := range from {
		fromStrings = append(fromStrings, string(s))
	}
	result := GetDB(ctx, r.db).Model(&models.Withdrawal{}).
		Where("id = ? AND status IN ?", id, fromStrings).
		Updates(updates)
	return transitionResult(ctx, r.db, result, &models.Withdrawal{}, id)
}

func (r *WithdrawalRepositoryImpl) List(ctx context.Context, filter entities.WithdrawalFilter) ([]*entities.Withdrawal, int64, error) {
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
	if err := GetDB(ctx, r.db).Model(&models.Withdrawal{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Withdrawal
	query := GetDB(ctx, r.db).Scopes(scope).Order("created_at DESC")
	if err := applyPage(query, filter.Page, filter.Limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	withdrawals := make([]*entities.Withdrawal, 0, len(ms))
	for i := range ms {
		withdrawals = append(withdrawals, toWithdrawalEntity(&ms[i]))
	}
	return withdrawals, total, nil
}

func (r *WithdrawalRepositoryImpl) SumByUser(ctx context.Context, userID uuid.UUID, status entities.WithdrawalStatus) (decimal.Decimal, error) {
	query := GetDB(ctx, r.db).Model(&models.Withdrawal{}).Where("user_id = ? AND status = ?", userID, string(status))
	return sumColumn(query, "amount")
}

func (r *WithdrawalRepositoryImpl) CountAndSum(ctx context.Context, status entities.WithdrawalStatus) (int64, decimal.Decimal, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.Withdrawal{}).Where("status = ?", string(status)).Count(&count).Error; err != nil {
		return 0, decimal.Zero, err
	}
	sum, err := sumColumn(GetDB(ctx, r.db).Model(&models.Withdrawal{}).Where("status = ?", string(status)), "amount")
	return count, sum, err
}

func toWithdrawalEntity(m *models.Withdrawal) *entities.Withdrawal {
	return &entities.Withdrawal{
		ID:          m.ID,
		UserID:      m.UserID,
		WalletID:    m.WalletID,
		Amount:      m.Amount,
		Fee:         m.Fee,
		NetAmount:   m.NetAmount,
		Destination: m.Destination,
		Status:      entities.WithdrawalStatus(m.Status),
		TxHash:      null.StringFromPtr(m.TxHash),
		AdminNote:   null.StringFromPtr(m.AdminNote),
		ProcessedAt: null.TimeFromPtr(m.ProcessedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
