package repositories

import (
	"context"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositRepository defines deposit data operations
type DepositRepository interface {
	Create(ctx context.Context, deposit *entities.Deposit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Deposit, error)
	GetByProviderPaymentID(ctx context.Context, paymentID string) (*entities.Deposit, error)
	// Transition moves a deposit to `to` only if its current status is in `from`;
	// otherwise ErrInvalidTransition.
	Transition(ctx context.Context, id uuid.UUID, from []entities.DepositStatus, to entities.DepositStatus, note string) error
	AttachProviderPayment(ctx context.Context, id uuid.UUID, paymentID, txHash string) error
	List(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error)
	SumByUser(ctx context.Context, userID uuid.UUID, status entities.DepositStatus) (decimal.Decimal, error)
	CountAndSum(ctx context.Context, status entities.DepositStatus) (int64, decimal.Decimal, error)
}

// WithdrawalRepository defines withdrawal data operations
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entities.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Withdrawal, error)
	Transition(ctx context.Context, id uuid.UUID, from []entities.WithdrawalStatus, to entities.WithdrawalStatus, txHash, note string) error
	List(ctx context.Context, filter entities.WithdrawalFilter) ([]*entities.Withdrawal, int64, error)
	SumByUser(ctx context.Context, userID uuid.UUID, status entities.WithdrawalStatus) (decimal.Decimal, error)
	CountAndSum(ctx context.Context, status entities.WithdrawalStatus) (int64, decimal.Decimal, error)
}
