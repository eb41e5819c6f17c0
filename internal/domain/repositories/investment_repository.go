package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackageRepository defines investment package operations
type PackageRepository interface {
	Create(ctx context.Context, pkg *entities.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Package, error)
	Update(ctx context.Context, pkg *entities.Package) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, activeOnly bool) ([]*entities.Package, error)
}

// InvestmentRepository defines investment operations
type InvestmentRepository interface {
	Create(ctx context.Context, investment *entities.Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) ([]*entities.Investment, error)
	// ListMatured returns active investments whose maturity is at or before now.
	ListMatured(ctx context.Context, now time.Time, limit int) ([]*entities.Investment, error)
	// Complete flips active to completed with the computed profit; ErrInvalidTransition
	// when the investment is no longer active.
	Complete(ctx context.Context, id uuid.UUID, profit decimal.Decimal, completedAt time.Time) error
	SumByUser(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) (decimal.Decimal, error)
	SumProfitByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, status entities.InvestmentStatus) (int64, error)
}
