package usecases

import (
	"context"
	"strings"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/pkg/crypto"
	"fxvault.backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const adminDetailTradeLimit = 10

// AdminUserUsecase holds the back office user management operations. Every mutation
// writes an audit row.
type AdminUserUsecase struct {
	uow            repositories.UnitOfWork
	userRepo       repositories.UserRepository
	depositRepo    repositories.DepositRepository
	withdrawalRepo repositories.WithdrawalRepository
	investmentRepo repositories.InvestmentRepository
	tradeRepo      repositories.TradeRepository
	auditRepo      repositories.AuditLogRepository
}

// NewAdminUserUsecase creates a new admin user usecase
func NewAdminUserUsecase(
	uow repositories.UnitOfWork,
	userRepo repositories.UserRepository,
	depositRepo repositories.DepositRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	investmentRepo repositories.InvestmentRepository,
	tradeRepo repositories.TradeRepository,
	auditRepo repositories.AuditLogRepository,
) *AdminUserUsecase {
	return &AdminUserUsecase{
		uow:            uow,
		userRepo:       userRepo,
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		investmentRepo: investmentRepo,
		tradeRepo:      tradeRepo,
		auditRepo:      auditRepo,
	}
}

// List searches users by email or name
func (u *AdminUserUsecase) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return u.userRepo.List(ctx, filter)
}

// Detail returns a user with aggregates. Aggregate failures are logged and left empty.
func (u *AdminUserUsecase) Detail(ctx context.Context, id uuid.UUID) (*entities.UserDetail, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &entities.UserDetail{
		User:             user,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		Investments:      []*entities.Investment{},
		RecentTrades:     []*entities.Trade{},
	}

	var g errgroup.Group
	g.Go(softRead(ctx, "total_deposits", func() error {
		v, err := u.depositRepo.SumByUser(ctx, id, entities.DepositStatusApproved)
		if err == nil {
			detail.TotalDeposits = v
		}
		return err
	}))
	g.Go(softRead(ctx, "total_withdrawals", func() error {
		v, err := u.withdrawalRepo.SumByUser(ctx, id, entities.WithdrawalStatusPaid)
		if err == nil {
			detail.TotalWithdrawals = v
		}
		return err
	}))
	g.Go(softRead(ctx, "investments", func() error {
		v, err := u.investmentRepo.ListByUser(ctx, id, "")
		if err == nil && v != nil {
			detail.Investments = v
		}
		return err
	}))
	g.Go(softRead(ctx, "recent_trades", func() error {
		v, err := u.tradeRepo.ListByUser(ctx, id, adminDetailTradeLimit)
		if err == nil && v != nil {
			detail.RecentTrades = v
		}
		return err
	}))
	g.Go(softRead(ctx, "referral_count", func() error {
		v, err := u.userRepo.CountReferrals(ctx, id)
		detail.ReferralCount = v
		return err
	}))
	_ = g.Wait()

	return detail, nil
}

// AdjustBalance credits a positive amount or debits a negative one. A debit never
// takes the balance below zero.
func (u *AdminUserUsecase) AdjustBalance(ctx context.Context, actorID, id uuid.UUID, input *entities.AdjustBalanceInput) (*entities.User, error) {
	if input.Amount.IsZero() {
		return nil, domainerrors.NewError("amount must not be zero", domainerrors.ErrInvalidInput)
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domainerrors.NewError("reason is required", domainerrors.ErrInvalidInput)
	}

	var user *entities.User
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		if input.Amount.IsPositive() {
			err = u.userRepo.Credit(txCtx, id, input.Amount)
		} else {
			err = u.userRepo.Debit(txCtx, id, input.Amount.Abs())
		}
		if err != nil {
			return err
		}
		if err := recordAudit(txCtx, u.auditRepo, actorID, entities.AuditBalanceAdjusted, "user", id.String(), map[string]string{
			"amount": input.Amount.String(),
			"reason": reason,
		}); err != nil {
			return err
		}
		user, err = u.userRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Balance adjusted",
		zap.String("actor_id", actorID.String()),
		zap.String("user_id", id.String()),
		zap.String("amount", input.Amount.String()),
	)
	return user, nil
}

// ToggleBan bans or unbans a user. Admins cannot ban themselves.
func (u *AdminUserUsecase) ToggleBan(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error) {
	if actorID == id {
		return nil, domainerrors.NewError("cannot ban your own account", domainerrors.ErrInvalidInput)
	}
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsBanned = !user.IsBanned
	if err := u.userRepo.SetBanned(ctx, id, user.IsBanned); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditUserBanToggled, "user", id.String(), map[string]bool{"banned": user.IsBanned}); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleRole switches a user between user and admin. Admins cannot demote themselves.
func (u *AdminUserUsecase) ToggleRole(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error) {
	if actorID == id {
		return nil, domainerrors.NewError("cannot change your own role", domainerrors.ErrInvalidInput)
	}
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role := entities.UserRoleAdmin
	if user.IsAdmin() {
		role = entities.UserRoleUser
	}
	if err := u.userRepo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditUserRoleToggled, "user", id.String(), map[string]string{"role": string(role)}); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// ResetPassword stores a new bcrypt hash for the user. The password is never echoed
// or logged.
func (u *AdminUserUsecase) ResetPassword(ctx context.Context, actorID, id uuid.UUID, input *entities.ResetPasswordInput) error {
	if len(input.NewPassword) < 8 {
		return domainerrors.NewError("password must be at least 8 characters", domainerrors.ErrInvalidInput)
	}
	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	return recordAudit(ctx, u.auditRepo, actorID, entities.AuditUserPasswordReset, "user", id.String(), nil)
}

// ListAuditLogs lists the admin audit trail, newest first
func (u *AdminUserUsecase) ListAuditLogs(ctx context.Context, page, limit int) ([]*entities.AuditLog, int64, error) {
	return u.auditRepo.List(ctx, page, limit)
}
