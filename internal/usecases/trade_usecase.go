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

const (
	defaultTradeListLimit = 50
	maxTradeListLimit     = 200
)

// TradeUsecase runs operator declared trade rounds and the trades placed on them.
// Round results are set by an admin; nothing here reads market data.
type TradeUsecase struct {
	uow       repositories.UnitOfWork
	roundRepo repositories.TradeRoundRepository
	tradeRepo repositories.TradeRepository
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditLogRepository
	settings  SettingsProvider
	publisher events.Publisher
}

// NewTradeUsecase creates a new trade usecase
func NewTradeUsecase(
	uow repositories.UnitOfWork,
	roundRepo repositories.TradeRoundRepository,
	tradeRepo repositories.TradeRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditLogRepository,
	settings SettingsProvider,
	publisher events.Publisher,
) *TradeUsecase {
	return &TradeUsecase{
		uow:       uow,
		roundRepo: roundRepo,
		tradeRepo: tradeRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		settings:  settings,
		publisher: publisher,
	}
}

// ListOpenRounds returns active and scheduled rounds for users.
func (u *TradeUsecase) ListOpenRounds(ctx context.Context) ([]*entities.TradeRound, error) {
	return u.roundRepo.List(ctx, entities.RoundStatusActive, entities.RoundStatusScheduled)
}

// ListRounds returns rounds for the back office, all statuses when status is empty.
func (u *TradeUsecase) ListRounds(ctx context.Context, status entities.RoundStatus) ([]*entities.TradeRound, error) {
	if status == "" {
		return u.roundRepo.List(ctx)
	}
	return u.roundRepo.List(ctx, status)
}

// CreateRound schedules a new round
func (u *TradeUsecase) CreateRound(ctx context.Context, actorID uuid.UUID, input *entities.RoundInput) (*entities.TradeRound, error) {
	round := &entities.TradeRound{
		ID:        utils.GenerateUUIDv7(),
		Status:    entities.RoundStatusScheduled,
		CreatedBy: actorID,
	}
	if err := applyRoundInput(round, input); err != nil {
		return nil, err
	}
	if err := u.roundRepo.Create(ctx, round); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditRoundSaved, "round", round.ID.String(), round.Symbol); err != nil {
		return nil, err
	}
	return round, nil
}

// UpdateRound edits a round that has not started
func (u *TradeUsecase) UpdateRound(ctx context.Context, actorID, id uuid.UUID, input *entities.RoundInput) (*entities.TradeRound, error) {
	round, err := u.roundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyRoundInput(round, input); err != nil {
		return nil, err
	}
	if err := u.roundRepo.UpdateScheduled(ctx, round); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditRoundSaved, "round", round.ID.String(), round.Symbol); err != nil {
		return nil, err
	}
	return round, nil
}

// DeleteRound removes a scheduled or canceled round
func (u *TradeUsecase) DeleteRound(ctx context.Context, actorID, id uuid.UUID) error {
	if err := u.roundRepo.DeleteScheduled(ctx, id); err != nil {
		return err
	}
	return recordAudit(ctx, u.auditRepo, actorID, entities.AuditRoundCanceled, "round", id.String(), "deleted")
}

// ActivateRound opens a scheduled round for trading for DurationSeconds from now.
func (u *TradeUsecase) ActivateRound(ctx context.Context, actorID, id uuid.UUID) (*entities.TradeRound, error) {
	round, err := u.roundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	startsAt := now()
	endsAt := startsAt.Add(time.Duration(round.DurationSeconds) * time.Second)
	if err := u.roundRepo.Activate(ctx, id, startsAt, endsAt); err != nil {
		return nil, err
	}
	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditRoundActivated, "round", id.String(), nil); err != nil {
		return nil, err
	}
	round.Status = entities.RoundStatusActive
	round.StartsAt = null.TimeFrom(startsAt)
	round.EndsAt = null.TimeFrom(endsAt)
	return round, nil
}

// CancelRound cancels a scheduled round, or an active one refunding every pending trade.
func (u *TradeUsecase) CancelRound(ctx context.Context, actorID, id uuid.UUID) (*entities.TradeRound, error) {
	var round *entities.TradeRound
	refunded := 0
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		r, err := u.roundRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return err
		}
		switch r.Status {
		case entities.RoundStatusScheduled, entities.RoundStatusActive:
		default:
			return domainerrors.ErrInvalidTransition
		}
		if err := u.roundRepo.Cancel(txCtx, id, []entities.RoundStatus{r.Status}); err != nil {
			return err
		}

		if r.Status == entities.RoundStatusActive {
			trades, err := u.tradeRepo.ListPendingByRound(txCtx, id)
			if err != nil {
				return err
			}
			settledAt := now()
			for _, t := range trades {
				if err := u.tradeRepo.Settle(txCtx, t.ID, entities.TradeStatusRefunded, t.Amount, settledAt); err != nil {
					return err
				}
				if err := u.userRepo.Credit(txCtx, t.UserID, t.Amount); err != nil {
					return err
				}
				refunded++
			}
		}

		if err := recordAudit(txCtx, u.auditRepo, actorID, entities.AuditRoundCanceled, "round", id.String(), map[string]int{"refunded": refunded}); err != nil {
			return err
		}
		r.Status = entities.RoundStatusCanceled
		round = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if refunded > 0 {
		logger.Info(ctx, "Round canceled with refunds", zap.String("round_id", id.String()), zap.Int("refunded", refunded))
	}
	return round, nil
}

// CompleteRound closes an active round and settles its pending trades. A result given
// in input replaces the preset one.
func (u *TradeUsecase) CompleteRound(ctx context.Context, actorID, id uuid.UUID, input *entities.CompleteRoundInput) (*entities.RoundSettlement, error) {
	return u.completeRound(ctx, &actorID, id, input)
}

// SettleDueRounds completes active rounds whose end passed and which carry a preset result.
func (u *TradeUsecase) SettleDueRounds(ctx context.Context, at time.Time, limit int) (int, error) {
	due, err := u.roundRepo.ListDue(ctx, at, limit)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, r := range due {
		if _, err := u.completeRound(ctx, nil, r.ID, nil); err != nil {
			if errors.Is(err, domainerrors.ErrInvalidTransition) {
				continue
			}
			logger.Error(ctx, "Failed to settle round", zap.String("round_id", r.ID.String()), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

// completeRound settles a round in one transaction. actorID is nil for scheduled
// settlement, which writes no audit row.
func (u *TradeUsecase) completeRound(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, input *entities.CompleteRoundInput) (*entities.RoundSettlement, error) {
	var settlement *entities.RoundSettlement
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		r, err := u.roundRepo.GetByID(u.uow.WithLock(txCtx), id)
		if err != nil {
			return err
		}
		if r.Status != entities.RoundStatusActive {
			return domainerrors.ErrInvalidTransition
		}
		if input != nil {
			if err := applyRoundResult(r, input.Outcome, input.AdminDirection); err != nil {
				return err
			}
		}
		if !r.HasResult() {
			return domainerrors.NewError("round needs an outcome or a direction", domainerrors.ErrInvalidInput)
		}
		if err := u.roundRepo.Complete(txCtx, id, r.Outcome, r.AdminDirection); err != nil {
			return err
		}

		trades, err := u.tradeRepo.ListPendingByRound(txCtx, id)
		if err != nil {
			return err
		}
		s := &entities.RoundSettlement{Round: r}
		settledAt := now()
		for _, t := range trades {
			status := r.ResultFor(t.Direction)
			payout := entities.PayoutFor(t.Amount, r.PayoutPercent, status)
			if err := u.tradeRepo.Settle(txCtx, t.ID, status, payout, settledAt); err != nil {
				return err
			}
			if payout.IsPositive() {
				if err := u.userRepo.Credit(txCtx, t.UserID, payout); err != nil {
					return err
				}
			}
			s.Settled++
			switch status {
			case entities.TradeStatusWon:
				s.Won++
			case entities.TradeStatusDraw:
				s.Draw++
			default:
				s.Lost++
			}
		}

		if actorID != nil {
			if err := recordAudit(txCtx, u.auditRepo, *actorID, entities.AuditRoundCompleted, "round", id.String(), map[string]interface{}{
				"outcome":   r.Outcome.String,
				"direction": r.AdminDirection.String,
				"settled":   s.Settled,
			}); err != nil {
				return err
			}
		}
		r.Status = entities.RoundStatusCompleted
		settlement = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TradesSettled(string(entities.TradeStatusWon), settlement.Won)
	metrics.TradesSettled(string(entities.TradeStatusLost), settlement.Lost)
	metrics.TradesSettled(string(entities.TradeStatusDraw), settlement.Draw)
	publish(ctx, u.publisher, entities.EventRoundCompleted, nil, id, map[string]interface{}{
		"symbol":  settlement.Round.Symbol,
		"settled": settlement.Settled,
		"won":     settlement.Won,
		"lost":    settlement.Lost,
		"draw":    settlement.Draw,
	})
	logger.Info(ctx, "Round completed", zap.String("round_id", id.String()), zap.Int("settled", settlement.Settled))
	return settlement, nil
}

// PlaceTrade stakes amount on an open round
func (u *TradeUsecase) PlaceTrade(ctx context.Context, userID uuid.UUID, input *entities.PlaceTradeInput) (*entities.Trade, error) {
	if !input.Direction.Valid() {
		return nil, domainerrors.NewError("direction must be up or down", domainerrors.ErrInvalidInput)
	}
	if err := requirePositive(input.Amount, "amount"); err != nil {
		return nil, err
	}
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThan(settings.MinTrade) || input.Amount.GreaterThan(settings.MaxTrade) {
		return nil, fmt.Errorf("%w: trade amount must be between %s and %s", domainerrors.ErrOutOfRange, settings.MinTrade.String(), settings.MaxTrade.String())
	}

	trade := &entities.Trade{
		ID:        utils.GenerateUUIDv7(),
		RoundID:   input.RoundID,
		UserID:    userID,
		Direction: input.Direction,
		Amount:    input.Amount,
		Payout:    decimal.Zero,
		Status:    entities.TradeStatusPending,
	}
	// The round row stays locked until the trade is inserted, so completion and
	// cancellation either see this trade or run before it is placed.
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		round, err := u.roundRepo.GetByID(u.uow.WithLock(txCtx), input.RoundID)
		if err != nil {
			return err
		}
		if !round.OpenForTrading(now()) {
			return fmt.Errorf("%w: round is not open for trading", domainerrors.ErrInactive)
		}
		if err := u.userRepo.Debit(txCtx, userID, trade.Amount); err != nil {
			return err
		}
		return u.tradeRepo.Create(txCtx, trade)
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// ListTrades lists the caller's most recent trades
func (u *TradeUsecase) ListTrades(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Trade, error) {
	if limit <= 0 {
		limit = defaultTradeListLimit
	}
	if limit > maxTradeListLimit {
		limit = maxTradeListLimit
	}
	return u.tradeRepo.ListByUser(ctx, userID, limit)
}

func applyRoundInput(round *entities.TradeRound, input *entities.RoundInput) error {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return domainerrors.NewError("symbol is required", domainerrors.ErrInvalidInput)
	}
	if input.DurationSeconds < 10 {
		return domainerrors.NewError("durationSeconds must be at least 10", domainerrors.ErrInvalidInput)
	}
	if err := requirePositive(input.PayoutPercent, "payoutPercent"); err != nil {
		return err
	}

	round.Symbol = symbol
	round.DurationSeconds = input.DurationSeconds
	round.PayoutPercent = input.PayoutPercent
	round.Outcome = null.String{}
	round.AdminDirection = null.String{}
	return applyRoundResult(round, input.Outcome, input.AdminDirection)
}

func applyRoundResult(round *entities.TradeRound, outcome entities.RoundOutcome, direction entities.Direction) error {
	if outcome != "" {
		if !outcome.Valid() {
			return domainerrors.NewError("outcome must be win, lose or draw", domainerrors.ErrInvalidInput)
		}
		round.Outcome = null.StringFrom(string(outcome))
	}
	if direction != "" {
		if !direction.Valid() {
			return domainerrors.NewError("adminDirection must be up or down", domainerrors.ErrInvalidInput)
		}
		round.AdminDirection = null.StringFrom(string(direction))
	}
	return nil
}
