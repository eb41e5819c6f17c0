package repositories

import (
	"context"
	"errors"
	"time"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommissionRepositoryImpl implements CommissionRepository
type CommissionRepositoryImpl struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepositoryImpl {
	return &CommissionRepositoryImpl{db: db}
}

func (r *CommissionRepositoryImpl) Create(ctx context.Context, c *entities.Commission) error {
	c.CreatedAt = time.Now().UTC()
	m := &models.Commission{
		ID:             c.ID,
		ReferrerID:     c.ReferrerID,
		ReferredUserID: c.ReferredUserID,
		DepositID:      c.DepositID,
		Amount:         c.Amount,
		Percent:        c.Percent,
		CreatedAt:      c.CreatedAt,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *CommissionRepositoryImpl) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entities.Commission, error) {
	var ms []models.Commission
	if err := GetDB(ctx, r.db).Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Commission, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.Commission{
			ID:             m.ID,
			ReferrerID:     m.ReferrerID,
			ReferredUserID: m.ReferredUserID,
			DepositID:      m.DepositID,
			Amount:         m.Amount,
			Percent:        m.Percent,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}

func (r *CommissionRepositoryImpl) SumByReferrer(ctx context.Context, referrerID uuid.UUID) (decimal.Decimal, error) {
	return sumColumn(GetDB(ctx, r.db).Model(&models.Commission{}).Where("referrer_id = ?", referrerID), "amount")
}

const settingsRowID = 1

// SettingsRepositoryImpl implements SettingsRepository
type SettingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepositoryImpl {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) Get(ctx context.Context) (*entities.Settings, error) {
	var m models.PlatformSettings
	err := GetDB(ctx, r.db).Where("id = ?", settingsRowID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return &entities.Settings{
		SiteName:                  m.SiteName,
		SupportEmail:              m.SupportEmail,
		MinDeposit:                m.MinDeposit,
		MinWithdrawal:             m.MinWithdrawal,
		WithdrawalFeePercent:      m.WithdrawalFeePercent,
		MinTrade:                  m.MinTrade,
		MaxTrade:                  m.MaxTrade,
		ReferralCommissionPercent: m.ReferralCommissionPercent,
		KYCRequiredForWithdrawal:  m.KYCRequiredForWithdrawal,
		MaintenanceMode:           m.MaintenanceMode,
		UpdatedAt:                 m.UpdatedAt,
	}, nil
}

// Save upserts the single settings row.
func (r *SettingsRepositoryImpl) Save(ctx context.Context, s *entities.Settings) error {
	s.UpdatedAt = time.Now().UTC()
	m := &models.PlatformSettings{
		ID:                        settingsRowID,
		SiteName:                  s.SiteName,
		SupportEmail:              s.SupportEmail,
		MinDeposit:                s.MinDeposit,
		MinWithdrawal:             s.MinWithdrawal,
		WithdrawalFeePercent:      s.WithdrawalFeePercent,
		MinTrade:                  s.MinTrade,
		MaxTrade:                  s.MaxTrade,
		ReferralCommissionPercent: s.ReferralCommissionPercent,
		KYCRequiredForWithdrawal:  s.KYCRequiredForWithdrawal,
		MaintenanceMode:           s.MaintenanceMode,
		UpdatedAt:                 s.UpdatedAt,
	}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

// AuditLogRepositoryImpl implements AuditLogRepository
type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepositoryImpl {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, log *entities.AuditLog) error {
	log.CreatedAt = time.Now().UTC()
	return GetDB(ctx, r.db).Create(&models.AuditLog{
		ID:         log.ID,
		ActorID:    log.ActorID,
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Details:    log.Details,
		CreatedAt:  log.CreatedAt,
	}).Error
}

func (r *AuditLogRepositoryImpl) List(ctx context.Context, page, limit int) ([]*entities.AuditLog, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []models.AuditLog
	if err := applyPage(GetDB(ctx, r.db).Order("created_at DESC"), page, limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.AuditLog, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.AuditLog{
			ID:         m.ID,
			ActorID:    m.ActorID,
			Action:     m.Action,
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			Details:    m.Details,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, total, nil
}

// ContactRepositoryImpl implements ContactRepository
type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepositoryImpl {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) Create(ctx context.Context, msg *entities.ContactMessage) error {
	msg.CreatedAt = time.Now().UTC()
	return GetDB(ctx, r.db).Create(&models.ContactMessage{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		IPAddress: msg.IPAddress,
		CreatedAt: msg.CreatedAt,
	}).Error
}

func (r *ContactRepositoryImpl) List(ctx context.Context, page, limit int) ([]*entities.ContactMessage, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []models.ContactMessage
	if err := applyPage(GetDB(ctx, r.db).Order("created_at DESC"), page, limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.ContactMessage, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.ContactMessage{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Message:   m.Message,
			IPAddress: m.IPAddress,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, total, nil
}
