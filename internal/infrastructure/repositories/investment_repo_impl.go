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

// PackageRepositoryImpl implements PackageRepository
type PackageRepositoryImpl struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepositoryImpl {
	return &PackageRepositoryImpl{db: db}
}

func (r *PackageRepositoryImpl) Create(ctx context.Context, pkg *entities.Package) error {
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now
	m := &models.Package{
		ID:           pkg.ID,
		Name:         pkg.Name,
		Description:  pkg.Description.Ptr(),
		DailyROI:     pkg.DailyROI,
		DurationDays: pkg.DurationDays,
		MinAmount:    pkg.MinAmount,
		MaxAmount:    pkg.MaxAmount,
		IsActive:     pkg.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *PackageRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Package, error) {
	var m models.Package
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toPackageEntity(&m), nil
}

func (r *PackageRepositoryImpl) Update(ctx context.Context, pkg *entities.Package) error {
	result := GetDB(ctx, r.db).Model(&models.Package{}).Where("id = ?", pkg.ID).Updates(map[string]interface{}{
		"name":          pkg.Name,
		"description":   pkg.Description.Ptr(),
		"daily_roi":     pkg.DailyROI,
		"duration_days": pkg.DurationDays,
		"min_amount":    pkg.MinAmount,
		"max_amount":    pkg.MaxAmount,
		"is_active":     pkg.IsActive,
		"updated_at":    time.Now().UTC(),
	})
	return affectedOrNotFound(result)
}

func (r *PackageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return affectedOrNotFound(GetDB(ctx, r.db).Delete(&models.Package{}, "id = ?", id))
}

func (r *PackageRepositoryImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := GetDB(ctx, r.db).Model(&models.Package{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
	return affectedOrNotFound(result)
}

func (r *PackageRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*entities.Package, error) {
	query := GetDB(ctx, r.db).Order("min_amount ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var ms []models.Package
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	packages := make([]*entities.Package, 0, len(ms))
	for i := range ms {
		packages = append(packages, toPackageEntity(&ms[i]))
	}
	return packages, nil
}

func toPackageEntity(m *models.Package) *entities.Package {
	return &entities.Package{
		ID:           m.ID,
		Name:         m.Name,
		Description:  null.StringFromPtr(m.Description),
		DailyROI:     m.DailyROI,
		DurationDays: m.DurationDays,
		MinAmount:    m.MinAmount,
		MaxAmount:    m.MaxAmount,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// InvestmentRepositoryImpl implements InvestmentRepository
type InvestmentRepositoryImpl struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepositoryImpl {
	return &InvestmentRepositoryImpl{db: db}
}

func (r *InvestmentRepositoryImpl) Create(ctx context.Context, inv *entities.Investment) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	m := &models.Investment{
		ID:           inv.ID,
		UserID:       inv.UserID,
		PackageID:    inv.PackageID,
		PackageName:  inv.PackageName,
		Amount:       inv.Amount,
		DailyROI:     inv.DailyROI,
		DurationDays: inv.DurationDays,
		Profit:       inv.Profit,
		Status:       string(inv.Status),
		StartedAt:    inv.StartedAt,
		MaturesAt:    inv.MaturesAt,
		CompletedAt:  inv.CompletedAt.Ptr(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *InvestmentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error) {
	var m models.Investment
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toInvestmentEntity(&m), nil
}

func (r *InvestmentRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) ([]*entities.Investment, error) {
	query := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	return r.find(query)
}

func (r *InvestmentRepositoryImpl) ListMatured(ctx context.Context, now time.Time, limit int) ([]*entities.Investment, error) {
	query := GetDB(ctx, r.db).
		Where("status = ? AND matures_at <= ?", string(entities.InvestmentStatusActive), now).
		Order("matures_at ASC").
		Limit(limit)
	return r.find(query)
}

func (r *InvestmentRepositoryImpl) Complete(ctx context.Context, id uuid.UUID, profit decimal.Decimal, completedAt time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.Investment{}).
		Where("id = ? AND status = ?", id, string(entities.InvestmentStatusActive)).
		Updates(map[string]interface{}{
			"status":       string(entities.InvestmentStatusCompleted),
			"profit":       profit,
			"completed_at": completedAt,
			"updated_at":   time.Now().UTC(),
		})
	return transitionResult(ctx, r.db, result, &models.Investment{}, id)
}

func (r *InvestmentRepositoryImpl) SumByUser(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) (decimal.Decimal, error) {
	query := GetDB(ctx, r.db).Model(&models.Investment{}).Where("user_id = ? AND status = ?", userID, string(status))
	return sumColumn(query, "amount")
}

func (r *InvestmentRepositoryImpl) SumProfitByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := GetDB(ctx, r.db).Model(&models.Investment{}).
		Where("user_id = ? AND status = ?", userID, string(entities.InvestmentStatusCompleted))
	return sumColumn(query, "profit")
}

func (r *InvestmentRepositoryImpl) CountByStatus(ctx context.Context, status entities.InvestmentStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Investment{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

func (r *InvestmentRepositoryImpl) find(query *gorm.DB) ([]*entities.Investment, error) {
	var ms []models.Investment
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	investments := make([]*entities.Investment, 0, len(ms))
	for i := range ms {
		investments = append(investments, toInvestmentEntity(&ms[i]))
	}
	return investments, nil
}

func toInvestmentEntity(m *models.Investment) *entities.Investment {
	return &entities.Investment{
		ID:           m.ID,
		UserID:       m.UserID,
		PackageID:    m.PackageID,
		PackageName:  m.PackageName,
		Amount:       m.Amount,
		DailyROI:     m.DailyROI,
		DurationDays: m.DurationDays,
		Profit:       m.Profit,
		Status:       entities.InvestmentStatus(m.Status),
		StartedAt:    m.StartedAt,
		MaturesAt:    m.MaturesAt,
		CompletedAt:  null.TimeFromPtr(m.CompletedAt),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
