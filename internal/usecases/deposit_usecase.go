package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fxvault.backend/internal/config"
	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/internal/infrastructure/events"
	"fxvault.backend/internal/infrastructure/payment"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/metrics"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// PaymentProvider creates hosted invoices and direct payments.
type PaymentProvider interface {
	CreateInvoice(ctx context.Context, req *payment.InvoiceRequest) (*payment.Invoice, error)
	CreatePayment(ctx context.Context, req *payment.PaymentRequest) (*payment.Payment, error)
}

// SettingsProvider returns the current platform settings.
type SettingsProvider interface {
	Get(ctx context.Context) (*entities.Settings, error)
}

// DepositUsecase handles deposit creation, review and provider notifications
type DepositUsecase struct {
	uow            repositories.UnitOfWork
	depositRepo    repositories.DepositRepository
	walletRepo     repositories.WalletRepository
	userRepo       repositories.UserRepository
	commissionRepo repositories.CommissionRepository
	auditRepo      repositories.AuditLogRepository
	settings       SettingsProvider
	provider       PaymentProvider
	publisher      events.Publisher
	paymentCfg     config.PaymentConfig
}

// NewDepositUsecase creates a new deposit usecase
func NewDepositUsecase(
	uow repositories.UnitOfWork,
	depositRepo repositories.DepositRepository,
	walletRepo repositories.WalletRepository,
	userRepo repositories.UserRepository,
	commissionRepo repositories.CommissionRepository,
	auditRepo repositories.AuditLogRepository,
	settings SettingsProvider,
	provider PaymentProvider,
	publisher events.Publisher,
	paymentCfg config.PaymentConfig,
) *DepositUsecase {
	return &DepositUsecase{
		uow:            uow,
		depositRepo:    depositRepo,
		walletRepo:     walletRepo,
		userRepo:       userRepo,
		commissionRepo: commissionRepo,
		auditRepo:      auditRepo,
		settings:       settings,
		provider:       provider,
		publisher:      publisher,
		paymentCfg:     paymentCfg,
	}
}

// CreateDeposit records a manual transfer to an active deposit wallet as pending.
func (u *DepositUsecase) CreateDeposit(ctx context.Context, userID uuid.UUID, input *entities.CreateDepositInput) (*entities.Deposit, error) {
	if err := requirePositive(input.Amount, "amount"); err != nil {
		return nil, err
	}
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireMinimum(input.Amount, settings.MinDeposit, "deposit"); err != nil {
		return nil, err
	}

	wallet, err := u.walletRepo.GetByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if wallet.Kind != entities.WalletKindDeposit {
		return nil, domainerrors.NewError("wallet is not a deposit wallet", domainerrors.ErrInvalidInput)
	}
	if !wallet.IsActive {
		return nil, fmt.Errorf("%w: deposit wallet is disabled", domainerrors.ErrInactive)
	}
	if err := requireMinimum(input.Amount, wallet.MinAmount, "deposit for this wallet"); err != nil {
		return nil, err
	}

	deposit := &entities.Deposit{
		ID:       utils.GenerateUUIDv7(),
		UserID:   userID,
		WalletID: &wallet.ID,
		Amount:   input.Amount,
		Currency: wallet.Currency,
		Method:   entities.DepositMethodManual,
		Status:   entities.DepositStatusPending,
		ProofURL: null.StringFromPtr(optionalString(input.ProofURL)),
		TxHash:   null.StringFromPtr(optionalString(input.TxHash)),
	}
	if err := u.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}
	return deposit, nil
}

// CreateInvoice asks the provider for a hosted checkout and stores a pending deposit whose
// id is the provider order id.
func (u *DepositUsecase) CreateInvoice(ctx context.Context, userID uuid.UUID, input *entities.CreateInvoiceInput) (*entities.InvoiceResponse, error) {
	if err := u.checkProviderAmount(ctx, input.Amount); err != nil {
		return nil, err
	}

	depositID := utils.GenerateUUIDv7()
	invoice, err := u.provider.CreateInvoice(ctx, &payment.InvoiceRequest{
		PriceAmount:      input.Amount,
		PriceCurrency:    u.paymentCfg.PriceCurrency,
		PayCurrency:      strings.ToLower(strings.TrimSpace(input.PayCurrency)),
		OrderID:          depositID.String(),
		OrderDescription: "Account deposit",
		IPNCallbackURL:   u.paymentCfg.CallbackURL,
		SuccessURL:       u.paymentCfg.SuccessURL,
		CancelURL:        u.paymentCfg.CancelURL,
	})
	if err != nil {
		logger.Error(ctx, "Invoice creation failed", zap.String("deposit_id", depositID.String()), zap.Error(err))
		return nil, err
	}

	deposit := &entities.Deposit{
		ID:                depositID,
		UserID:            userID,
		Amount:            input.Amount,
		Currency:          strings.ToUpper(u.paymentCfg.PriceCurrency),
		Method:            entities.DepositMethodInvoice,
		Status:            entities.DepositStatusPending,
		ProviderInvoiceID: null.StringFrom(invoice.ID.String()),
	}
	if err := u.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}

	return &entities.InvoiceResponse{
		Deposit:    deposit,
		InvoiceID:  invoice.ID.String(),
		InvoiceURL: invoice.InvoiceURL,
	}, nil
}

// CreateDirectPayment asks the provider for a pay address. The provider payment id is stored
// up front so the notification finds the deposit directly.
func (u *DepositUsecase) CreateDirectPayment(ctx context.Context, userID uuid.UUID, input *entities.DirectPaymentInput) (*entities.DirectPaymentResponse, error) {
	if err := u.checkProviderAmount(ctx, input.Amount); err != nil {
		return nil, err
	}

	depositID := utils.GenerateUUIDv7()
	p, err := u.provider.CreatePayment(ctx, &payment.PaymentRequest{
		PriceAmount:      input.Amount,
		PriceCurrency:    u.paymentCfg.PriceCurrency,
		PayCurrency:      strings.ToLower(strings.TrimSpace(input.PayCurrency)),
		OrderID:          depositID.String(),
		OrderDescription: "Account deposit",
		IPNCallbackURL:   u.paymentCfg.CallbackURL,
	})
	if err != nil {
		logger.Error(ctx, "Direct payment creation failed", zap.String("deposit_id", depositID.String()), zap.Error(err))
		return nil, err
	}

	deposit := &entities.Deposit{
		ID:                depositID,
		UserID:            userID,
		Amount:            input.Amount,
		Currency:          strings.ToUpper(u.paymentCfg.PriceCurrency),
		Method:            entities.DepositMethodInvoice,
		Status:            entities.DepositStatusPending,
		ProviderPaymentID: null.StringFrom(p.PaymentID.String()),
	}
	if err := u.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}

	return &entities.DirectPaymentResponse{
		Deposit:     deposit,
		PaymentID:   p.PaymentID.String(),
		PayAddress:  p.PayAddress,
		PayAmount:   p.PayAmount.String(),
		PayCurrency: p.PayCurrency,
	}, nil
}

func (u *DepositUsecase) checkProviderAmount(ctx context.Context, amount decimal.Decimal) error {
	if err := requirePositive(amount, "amount"); err != nil {
		return err
	}
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return err
	}
	return requireMinimum(amount, settings.MinDeposit, "deposit")
}

// ListByUser lists the caller's deposits
func (u *DepositUsecase) ListByUser(ctx context.Context, userID uuid.UUID, status entities.DepositStatus, page, limit int) ([]*entities.Deposit, int64, error) {
	return u.depositRepo.List(ctx, entities.DepositFilter{UserID: &userID, Status: status, Page: page, Limit: limit})
}

// List lists all deposits for the back office
func (u *DepositUsecase) List(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error) {
	return u.depositRepo.List(ctx, filter)
}

// Approve moves a pending deposit to approved and credits the user in the same transaction.
func (u *DepositUsecase) Approve(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error) {
	var deposit *entities.Deposit
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		d, err := u.depositRepo.GetByID(lockCtx, id)
		if err != nil {
			return err
		}
		if err := u.depositRepo.Transition(txCtx, d.ID, []entities.DepositStatus{entities.DepositStatusPending}, entities.DepositStatusApproved, note); err != nil {
			return err
		}
		if err := u.creditDeposit(lockCtx, d); err != nil {
			return err
		}
		if err := recordAudit(txCtx, u.auditRepo, actorID, entities.AuditDepositApproved, "deposit", d.ID.String(), map[string]string{
			"amount": d.Amount.String(),
			"note":   note,
		}); err != nil {
			return err
		}

		d.Status = entities.DepositStatusApproved
		d.AdminNote = null.StringFromPtr(optionalString(note))
		d.ReviewedAt = null.TimeFrom(now())
		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DepositCredited(string(deposit.Method))
	u.publishApproved(ctx, deposit)
	return deposit, nil
}

// Reject moves a pending deposit to rejected.
func (u *DepositUsecase) Reject(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error) {
	var deposit *entities.Deposit
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.depositRepo.Transition(txCtx, id, []entities.DepositStatus{entities.DepositStatusPending}, entities.DepositStatusRejected, note); err != nil {
			return err
		}
		if err := recordAudit(txCtx, u.auditRepo, actorID, entities.AuditDepositRejected, "deposit", id.String(), note); err != nil {
			return err
		}
		d, err := u.depositRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		deposit = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// creditDeposit credits the depositor and pays the referral commission. ctx must carry
// the transaction that flipped the deposit to approved.
func (u *DepositUsecase) creditDeposit(ctx context.Context, d *entities.Deposit) error {
	if err := u.userRepo.Credit(ctx, d.UserID, d.Amount); err != nil {
		return err
	}

	user, err := u.userRepo.GetByID(ctx, d.UserID)
	if err != nil {
		return err
	}
	if user.ReferredBy == nil {
		return nil
	}

	settings, err := u.settings.Get(ctx)
	if err != nil {
		return err
	}
	amount := settings.ReferralCommission(d.Amount)
	if !amount.IsPositive() {
		return nil
	}

	if err := u.commissionRepo.Create(ctx, &entities.Commission{
		ID:             utils.GenerateUUIDv7(),
		ReferrerID:     *user.ReferredBy,
		ReferredUserID: user.ID,
		DepositID:      d.ID,
		Amount:         amount,
		Percent:        settings.ReferralCommissionPercent,
		CreatedAt:      now(),
	}); err != nil {
		return err
	}
	if err := u.userRepo.Credit(ctx, *user.ReferredBy, amount); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "Referrer missing, commission not credited", zap.String("deposit_id", d.ID.String()))
			return nil
		}
		return err
	}
	return nil
}

func (u *DepositUsecase) publishApproved(ctx context.Context, d *entities.Deposit) {
	publish(ctx, u.publisher, entities.EventDepositApproved, userRef(d.UserID), d.ID, map[string]string{
		"amount":   d.Amount.String(),
		"currency": d.Currency,
		"method":   string(d.Method),
	})
}
