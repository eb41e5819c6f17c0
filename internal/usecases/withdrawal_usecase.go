package usecases

import (
	"context"
	"fmt"
	"strings"

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

// WithdrawalUsecase handles payout requests and their admin review
type WithdrawalUsecase struct {
	uow            repositories.UnitOfWork
	withdrawalRepo repositories.WithdrawalRepository
	walletRepo     repositories.WalletRepository
	userRepo       repositories.UserRepository
	auditRepo      repositories.AuditLogRepository
	settings       SettingsProvider
	publisher      events.Publisher
}

// NewWithdrawalUsecase creates a new withdrawal usecase
func NewWithdrawalUsecase(
	uow repositories.UnitOfWork,
	withdrawalRepo repositories.WithdrawalRepository,
	walletRepo repositories.WalletRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditLogRepository,
	settings SettingsProvider,
	publisher events.Publisher,
) *WithdrawalUsecase {
	return &WithdrawalUsecase{
		uow:            uow,
		withdrawalRepo: withdrawalRepo,
		walletRepo:     walletRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		settings:       settings,
		publisher:      publisher,
	}
}

// Request debits the full amount and records a pending withdrawal. All validation
// happens before the first write.
func (u *WithdrawalUsecase) Request(ctx context.Context, userID uuid.UUID, input *entities.CreateWithdrawalInput) (*entities.Withdrawal, error) {
	if err := requirePositive(input.Amount, "amount"); err != nil {
		return nil, err
	}
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireMinimum(input.Amount, settings.MinWithdrawal, "withdrawal"); err != nil {
		return nil, err
	}
	destination := strings.TrimSpace(input.Destination)
	if destination == "" {
		return nil, domainerrors.NewError("destination is required", domainerrors.ErrInvalidInput)
	}

	if settings.KYCRequiredForWithdrawal {
		user, err := u.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.KYCStatus != entities.KYCVerified {
			return nil, domainerrors.ErrKYCRequired
		}
	}

	fee := settings.WithdrawalFee(input.Amount)
	withdrawal := &entities.Withdrawal{
		ID:          utils.GenerateUUIDv7(),
		UserID:      userID,
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Fee:         fee,
		NetAmount:   input.Amount.Sub(fee),
		Destination: destination,
		Status:      entities.WithdrawalStatusPending,
	}

	// The method is locked until the request is stored, so disabling it cannot race
	// with the debit.
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetByID(u.uow.WithLock(txCtx), input.WalletID)
		if err != nil {
			return err
		}
		if err := checkWithdrawalMethod(wallet, input.Amount); err != nil {
			return err
		}
		if err := u.userRepo.Debit(txCtx, userID, withdrawal.Amount); err != nil {
			return err
		}
		return u.withdrawalRepo.Create(txCtx, withdrawal)
	})
	if err != nil {
		return nil, err
	}

	metrics.WithdrawalRequested()
	publish(ctx, u.publisher, entities.EventWithdrawalRequested, userRef(userID), withdrawal.ID, map[string]string{
		"amount":    withdrawal.Amount.String(),
		"netAmount": withdrawal.NetAmount.String(),
	})
	return withdrawal, nil
}

// ListByUser lists the caller's withdrawals
func (u *WithdrawalUsecase) ListByUser(ctx context.Context, userID uuid.UUID, status entities.WithdrawalStatus, page, limit int) ([]*entities.Withdrawal, int64, error) {
	return u.withdrawalRepo.List(ctx, entities.WithdrawalFilter{UserID: &userID, Status: status, Page: page, Limit: limit})
}

// List lists all withdrawals for the back office
func (u *WithdrawalUsecase) List(ctx context.Context, filter entities.WithdrawalFilter) ([]*entities.Withdrawal, int64, error) {
	return u.withdrawalRepo.List(ctx, filter)
}

// UpdateStatus moves a withdrawal along pending → processing → paid. Rejecting refunds
// the debited amount in the same transaction.
func (u *WithdrawalUsecase) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, input *entities.UpdateWithdrawalStatusInput) (*entities.Withdrawal, error) {
	from := input.Status.AllowedFrom()
	if len(from) == 0 {
		return nil, domainerrors.NewError("unsupported withdrawal status", domainerrors.ErrInvalidInput)
	}

	var withdrawal *entities.Withdrawal
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := u.withdrawalRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return err
		}
		txHash := strings.TrimSpace(input.TxHash)
		if err := u.withdrawalRepo.Transition(txCtx, id, from, input.Status, txHash, input.Note); err != nil {
			return err
		}
		if input.Status == entities.WithdrawalStatusRejected {
			if err := u.userRepo.Credit(txCtx, w.UserID, w.Amount); err != nil {
				return err
			}
		}
		if err := recordAudit(txCtx, u.auditRepo, actorID, entities.AuditWithdrawalUpdated, "withdrawal", id.String(), map[string]string{
			"from":   string(w.Status),
			"to":     string(input.Status),
			"txHash": txHash,
			"note":   input.Note,
		}); err != nil {
			return err
		}

		w.Status = input.Status
		if txHash != "" {
			w.TxHash = null.StringFrom(txHash)
		}
		if note := optionalString(input.Note); note != nil {
			w.AdminNote = null.StringFrom(*note)
		}
		if input.Status.IsFinal() {
			w.ProcessedAt = null.TimeFrom(now())
		}
		withdrawal = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Withdrawal status updated", zap.String("withdrawal_id", id.String()), zap.String("status", string(input.Status)))
	publish(ctx, u.publisher, entities.EventWithdrawalUpdated, userRef(withdrawal.UserID), withdrawal.ID, map[string]string{
		"status": string(withdrawal.Status),
	})
	return withdrawal, nil
}

func checkWithdrawalMethod(wallet *entities.Wallet, amount decimal.Decimal) error {
	if wallet.Kind != entities.WalletKindWithdrawal {
		return domainerrors.NewError("wallet is not a withdrawal method", domainerrors.ErrInvalidInput)
	}
	if !wallet.IsActive {
		return fmt.Errorf("%w: withdrawal method is disabled", domainerrors.ErrInactive)
	}
	return requireMinimum(amount, wallet.MinAmount, "withdrawal for this method")
}
