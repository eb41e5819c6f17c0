package repositories

import (
	"context"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)
	UpdateProfile(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	SetRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error
	SetKYCStatus(ctx context.Context, id uuid.UUID, status entities.KYCStatus) error
	// Credit adds amount to the balance in a single statement.
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// Debit subtracts amount only when the balance covers it; otherwise ErrInsufficientFunds.
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
	ListReferrals(ctx context.Context, referrerID uuid.UUID) ([]*entities.User, error)
	CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	SumBalances(ctx context.Context) (decimal.Decimal, error)
}
