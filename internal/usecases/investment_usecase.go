package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/internal/infrastructure/events"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/metrics"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// InvestmentUsecase manages packages, purchases and maturity settlement
type InvestmentUsecase struct {
	uow            repositories.UnitOfWork
	packageRepo    repositories.PackageRepository
	investmentRepo repositories.InvestmentRepository
	userRepo       repositories.UserRepository
	auditRepo      repositories.AuditLogRepository
	publisher      events.Publisher
}

// NewInvestmentUsecase creates a new investment usecase
func NewInvestmentUsecase(
	uow repositories.UnitOfWork,
	packageRepo repositories.PackageRepository,
	investmentRepo repositories.InvestmentRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditLogRepository,
	publisher events.Publisher,
) *InvestmentUsecase {
	return &InvestmentUsecase{
		uow:            uow,
		packageRepo:    packageRepo,
		investmentRepo: investmentRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		publisher:      publisher,
	}
}

// ListPackages returns packages, active only unless includeInactive is set.
func (u *InvestmentUsecase) ListPackages(ctx context.Context, includeInactive bool) ([]*entities.Package, error) {
	return u.packageRepo.List(ctx, !includeInactive)
}

// CreatePackage adds an investment package
func (u *InvestmentUsecase) CreatePackage(ctx context.Context, actorID uuid.UUID, input *entities.PackageInput) (*entities.Package, error) {
	pkg := &entities.Package{ID: utils.GenerateUUIDv7(), IsActive: true}
	if err := applyPackageInput(pkg, input); err != nil {
		return nil, err
	}
	if err := u.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditPackageSaved, "package", pkg.ID.String(), pkg.Name); err != nil {
		return nil, err
	}
	return pkg, nil
}

// UpdatePackage edits a package. Existing investments keep the terms they were bought with.
func (u *InvestmentUsecase) UpdatePackage(ctx context.Context, actorID, id uuid.UUID, input *entities.PackageInput) (*entities.Package, error) {
	pkg, err := u.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPackageInput(pkg, input); err != nil {
		return nil, err
	}
	if err := u.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditPackageSaved, "package", pkg.ID.String(), pkg.Name); err != nil {
		return nil, err
	}
	return pkg, nil
}

// DeletePackage removes a package that was never purchased
func (u *InvestmentUsecase) DeletePackage(ctx context.Context, actorID, id uuid.UUID) error {
	if err := u.packageRepo.Delete(ctx, id); err != nil {
		return err
	}
	return recordAudit(ctx, u.auditRepo, actorID, entities.AuditPackageDeleted, "package", id.String(), nil)
}

// TogglePackage flips the active flag
func (u *InvestmentUsecase) TogglePackage(ctx context.Context, actorID, id uuid.UUID) (*entities.Package, error) {
	pkg, err := u.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pkg.IsActive = !pkg.IsActive
	if err := u.packageRepo.SetActive(ctx, id, pkg.IsActive); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditPackageToggled, "package", id.String(), map[string]bool{"active": pkg.IsActive}); err != nil {
		return nil, err
	}
	return pkg, nil
}

func applyPackageInput(pkg *entities.Package, input *entities.PackageInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domainerrors.NewError("name is required", domainerrors.ErrInvalidInput)
	}
	if err := requirePositive(input.DailyROI, "dailyRoi"); err != nil {
		return err
	}
	if input.DurationDays < 1 {
		return domainerrors.NewError("durationDays must be at least 1", domainerrors.ErrInvalidInput)
	}
	if err := requirePositive(input.MinAmount, "minAmount"); err != nil {
		return err
	}
	if input.MaxAmount.LessThan(input.MinAmount) {
		return domainerrors.NewError("maxAmount must not be below minAmount", domainerrors.ErrInvalidInput)
	}

	pkg.Name = name
	pkg.Description = null.StringFromPtr(optionalString(input.Description))
	pkg.DailyROI = input.DailyROI
	pkg.DurationDays = input.DurationDays
	pkg.MinAmount = input.MinAmount
	pkg.MaxAmount = input.MaxAmount
	if input.IsActive != nil {
		pkg.IsActive = *input.IsActive
	}
	return nil
}

// Purchase buys a package. The package is re-read under a row lock inside the
// transaction, and the range check runs before the debit, so a failed insert or a
// package disabled meanwhile leaves the balance untouched.
func (u *InvestmentUsecase) Purchase(ctx context.Context, userID uuid.UUID, input *entities.PurchaseInput) (*entities.Investment, error) {
	if err := requirePositive(input.Amount, "amount"); err != nil {
		return nil, err
	}

	var investment *entities.Investment
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		pkg, err := u.packageRepo.GetByID(u.uow.WithLock(txCtx), input.PackageID)
		if err != nil {
			return err
		}
		if !pkg.IsActive {
			return fmt.Errorf("%w: package is not available", domainerrors.ErrInactive)
		}
		if !pkg.InRange(input.Amount) {
			return fmt.Errorf("%w: amount must be between %s and %s", domainerrors.ErrOutOfRange, pkg.MinAmount.String(), pkg.MaxAmount.String())
		}

		startedAt := now()
		inv := &entities.Investment{
			ID:           utils.GenerateUUIDv7(),
			UserID:       userID,
			PackageID:    pkg.ID,
			PackageName:  pkg.Name,
			Amount:       input.Amount,
			DailyROI:     pkg.DailyROI,
			DurationDays: pkg.DurationDays,
			Profit:       decimal.Zero,
			Status:       entities.InvestmentStatusActive,
			StartedAt:    startedAt,
			MaturesAt:    startedAt.AddDate(0, 0, pkg.DurationDays),
		}
		if err := u.userRepo.Debit(txCtx, userID, inv.Amount); err != nil {
			return err
		}
		if err := u.investmentRepo.Create(txCtx, inv); err != nil {
			return err
		}
		investment = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return investment, nil
}

// ListInvestments lists the caller's investments, optionally by status.
func (u *InvestmentUsecase) ListInvestments(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) ([]*entities.Investment, error) {
	return u.investmentRepo.ListByUser(ctx, userID, status)
}

// SettleMatured completes up to limit matured investments and returns how many were
// settled. A failed investment is logged and left for the next sweep.
func (u *InvestmentUsecase) SettleMatured(ctx context.Context, at time.Time, limit int) (int, error) {
	due, err := u.investmentRepo.ListMatured(ctx, at, limit)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, inv := range due {
		if err := u.settle(ctx, inv, at); err != nil {
			if errors.Is(err, domainerrors.ErrInvalidTransition) {
				continue
			}
			logger.Error(ctx, "Failed to settle investment", zap.String("investment_id", inv.ID.String()), zap.Error(err))
			continue
		}
		settled++
	}
	return settled, nil
}

func (u *InvestmentUsecase) settle(ctx context.Context, inv *entities.Investment, at time.Time) error {
	profit := entities.ProfitFor(inv.Amount, inv.DailyROI, inv.DurationDays)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.investmentRepo.Complete(txCtx, inv.ID, profit, at); err != nil {
			return err
		}
		return u.userRepo.Credit(txCtx, inv.UserID, inv.Amount.Add(profit))
	})
	if err != nil {
		return err
	}

	metrics.InvestmentSettled()
	publish(ctx, u.publisher, entities.EventInvestmentCompleted, userRef(inv.UserID), inv.ID, map[string]string{
		"amount": inv.Amount.String(),
		"profit": profit.String(),
	})
	return nil
}
