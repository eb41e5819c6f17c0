package repositories

import (
	"context"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// WalletRepository defines platform wallet operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	Update(ctx context.Context, wallet *entities.Wallet) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// List returns wallets of the given kind (all kinds when empty).
	List(ctx context.Context, kind entities.WalletKind, activeOnly bool) ([]*entities.Wallet, error)
}
