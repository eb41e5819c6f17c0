package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// KYCRepositoryImpl implements KYCRepository
type KYCRepositoryImpl struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) *KYCRepositoryImpl {
	return &KYCRepositoryImpl{db: db}
}

func (r *KYCRepositoryImpl) Create(ctx context.Context, rec *entities.KYCRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m := &models.KYCRecord{
		ID:             rec.ID,
		UserID:         rec.UserID,
		DocumentType:   rec.DocumentType,
		DocumentNumber: rec.DocumentNumber,
		FrontURL:       rec.FrontURL,
		BackURL:        rec.BackURL.Ptr(),
		SelfieURL:      rec.SelfieURL.Ptr(),
		Status:         string(rec.Status),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *KYCRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCRecord, error) {
	var m models.KYCRecord
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toKYCEntity(&m), nil
}

func (r *KYCRepositoryImpl) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.KYCRecord, error) {
	var m models.KYCRecord
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC").First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toKYCEntity(&m), nil
}

func (r *KYCRepositoryImpl) List(ctx context.Context, status entities.KYCStatus, page, limit int) ([]*entities.KYCRecord, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", string(status))
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(&models.KYCRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.KYCRecord
	query := GetDB(ctx, r.db).Scopes(scope).Order("created_at DESC")
	if err := applyPage(query, page, limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	records := make([]*entities.KYCRecord, 0, len(ms))
	for i := range ms {
		records = append(records, toKYCEntity(&ms[i]))
	}
	return records, total, nil
}

func (r *KYCRepositoryImpl) Review(ctx context.Context, id uuid.UUID, status entities.KYCStatus, note string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      string(status),
		"reviewed_at": now,
		"updated_at":  now,
	}
	if note != "" {
		updates["admin_note"] = note
	}
	result := GetDB(ctx, r.db).Model(&models.KYCRecord{}).
		Where("id = ? AND status = ?", id, string(entities.KYCPending)).
		Updates(updates)
	return transitionResult(ctx, r.db, result, &models.KYCRecord{}, id)
}

func (r *KYCRepositoryImpl) CountByStatus(ctx context.Context, status entities.KYCStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.KYCRecord{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

func toKYCEntity(m *models.KYCRecord) *entities.KYCRecord {
	return &entities.KYCRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		FrontURL:       m.FrontURL,
		BackURL:        null.StringFromPtr(m.BackURL),
		SelfieURL:      null.StringFromPtr(m.SelfieURL),
		Status:         entities.KYCStatus(m.Status),
		AdminNote:      null.StringFromPtr(m.AdminNote),
		ReviewedAt:     null.TimeFromPtr(m.ReviewedAt),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
