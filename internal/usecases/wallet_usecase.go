package usecases

import (
	"context"
	"strings"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WalletUsecase manages the platform deposit wallets and withdrawal methods
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	auditRepo  repositories.AuditLogRepository
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(walletRepo repositories.WalletRepository, auditRepo repositories.AuditLogRepository) *WalletUsecase {
	return &WalletUsecase{walletRepo: walletRepo, auditRepo: auditRepo}
}

// ListActive returns the wallets users may pick from.
func (u *WalletUsecase) ListActive(ctx context.Context, kind entities.WalletKind) ([]*entities.Wallet, error) {
	if kind != "" && !kind.Valid() {
		return nil, domainerrors.NewError("invalid wallet kind", domainerrors.ErrInvalidInput)
	}
	return u.walletRepo.List(ctx, kind, true)
}

// List returns every wallet for the back office.
func (u *WalletUsecase) List(ctx context.Context, kind entities.WalletKind) ([]*entities.Wallet, error) {
	if kind != "" && !kind.Valid() {
		return nil, domainerrors.NewError("invalid wallet kind", domainerrors.ErrInvalidInput)
	}
	return u.walletRepo.List(ctx, kind, false)
}

// Create adds a wallet
func (u *WalletUsecase) Create(ctx context.Context, actorID uuid.UUID, input *entities.WalletInput) (*entities.Wallet, error) {
	wallet := &entities.Wallet{ID: utils.GenerateUUIDv7(), IsActive: true}
	if err := applyWalletInput(wallet, input); err != nil {
		return nil, err
	}
	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditWalletSaved, "wallet", wallet.ID.String(), wallet.Name); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Update replaces the editable fields of a wallet
func (u *WalletUsecase) Update(ctx context.Context, actorID, id uuid.UUID, input *entities.WalletInput) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyWalletInput(wallet, input); err != nil {
		return nil, err
	}
	if err := u.walletRepo.Update(ctx, wallet); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditWalletSaved, "wallet", wallet.ID.String(), wallet.Name); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Delete removes a wallet
func (u *WalletUsecase) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := u.walletRepo.Delete(ctx, id); err != nil {
		return err
	}
	return recordAudit(ctx, u.auditRepo, actorID, entities.AuditWalletDeleted, "wallet", id.String(), nil)
}

// Toggle flips the active flag
func (u *WalletUsecase) Toggle(ctx context.Context, actorID, id uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wallet.IsActive = !wallet.IsActive
	if err := u.walletRepo.SetActive(ctx, id, wallet.IsActive); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditWalletToggled, "wallet", id.String(), map[string]bool{"active": wallet.IsActive}); err != nil {
		return nil, err
	}
	return wallet, nil
}

func applyWalletInput(wallet *entities.Wallet, input *entities.WalletInput) error {
	if !input.Kind.Valid() {
		return domainerrors.NewError("invalid wallet kind", domainerrors.ErrInvalidInput)
	}
	if input.MinAmount.IsNegative() {
		return domainerrors.NewError("minAmount cannot be negative", domainerrors.ErrInvalidInput)
	}
	address := optionalString(input.Address)
	if input.Kind == entities.WalletKindDeposit && address == nil {
		return domainerrors.NewError("deposit wallet requires an address", domainerrors.ErrInvalidInput)
	}

	wallet.Kind = input.Kind
	wallet.Name = strings.TrimSpace(input.Name)
	wallet.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	wallet.Network = null.StringFromPtr(optionalString(input.Network))
	wallet.Address = null.StringFromPtr(address)
	wallet.MinAmount = input.MinAmount
	if input.IsActive != nil {
		wallet.IsActive = *input.IsActive
	}
	return nil
}
