package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TradeRoundRepository defines trade round operations
type TradeRoundRepository interface {
	Create(ctx context.Context, round *entities.TradeRound) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TradeRound, error)
	// UpdateScheduled edits a round that has not started yet.
	UpdateScheduled(ctx context.Context, round *entities.TradeRound) error
	DeleteScheduled(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time) error
	Cancel(ctx context.Context, id uuid.UUID, from []entities.RoundStatus) error
	Complete(ctx context.Context, id uuid.UUID, outcome, direction null.String) error
	List(ctx context.Context, statuses ...entities.RoundStatus) ([]*entities.TradeRound, error)
	// ListDue returns active rounds past ends_at that carry a preset result.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.TradeRound, error)
	CountByStatus(ctx context.Context, status entities.RoundStatus) (int64, error)
}

// TradeRepository defines trade operations
type TradeRepository interface {
	Create(ctx context.Context, trade *entities.Trade) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Trade, error)
	ListPendingByRound(ctx context.Context, roundID uuid.UUID) ([]*entities.Trade, error)
	// Settle flips pending to status with payout; ErrInvalidTransition when already settled.
	Settle(ctx context.Context, id uuid.UUID, status entities.TradeStatus, payout decimal.Decimal, settledAt time.Time) error
	// SumProfitLossByUser returns sum(payout - amount) over settled trades.
	SumProfitLossByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}
