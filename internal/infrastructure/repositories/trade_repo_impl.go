package repositories

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// TradeRoundRepositoryImpl implements TradeRoundRepository
type TradeRoundRepositoryImpl struct {
	db *gorm.DB
}

func NewTradeRoundRepository(db *gorm.DB) *TradeRoundRepositoryImpl {
	return &TradeRoundRepositoryImpl{db: db}
}

func (r *TradeRoundRepositoryImpl) Create(ctx context.Context, round *entities.TradeRound) error {
	now := time.Now().UTC()
	round.CreatedAt = now
	round.UpdatedAt = now
	m := &models.TradeRound{
		ID:              round.ID,
		Symbol:          round.Symbol,
		DurationSeconds: round.DurationSeconds,
		PayoutPercent:   round.PayoutPercent,
		Outcome:         round.Outcome.Ptr(),
		AdminDirection:  round.AdminDirection.Ptr(),
		Status:          string(round.Status),
		StartsAt:        round.StartsAt.Ptr(),
		EndsAt:          round.EndsAt.Ptr(),
		CreatedBy:       round.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *TradeRoundRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.TradeRound, error) {
	var m models.TradeRound
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toRoundEntity(&m), nil
}

func (r *TradeRoundRepositoryImpl) UpdateScheduled(ctx context.Context, round *entities.TradeRound) error {
	result := GetDB(ctx, r.db).Model(&models.TradeRound{}).
		Where("id = ? AND status = ?", round.ID, string(entities.RoundStatusScheduled)).
		Updates(map[string]interface{}{
			"symbol":           round.Symbol,
			"duration_seconds": round.DurationSeconds,
			"payout_percent":   round.PayoutPercent,
			"outcome":          round.Outcome.Ptr(),
			"admin_direction":  round.AdminDirection.Ptr(),
			"updated_at":       time.Now().UTC(),
		})
	return transitionResult(ctx, r.db, result, &models.TradeRound{}, round.ID)
}

func (r *TradeRoundRepositoryImpl) DeleteScheduled(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).
		Where("id = ? AND status IN ?", id, []string{string(entities.RoundStatusScheduled), string(entities.RoundStatusCanceled)}).
		Delete(&models.TradeRound{})
	return transitionResult(ctx, r.db, result, &models.TradeRound{}, id)
}

func (r *TradeRoundRepositoryImpl) Activate(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.TradeRound{}).
		Where("id = ? AND status = ?", id, string(entities.RoundStatusScheduled)).
		Updates(map[string]interface{}{
			"status":     string(entities.RoundStatusActive),
			"starts_at":  startsAt,
			"ends_at":    endsAt,
			"updated_at": time.Now().UTC(),
		})
	return transitionResult(ctx, r.db, result, &models.TradeRound{}, id)
}

func (r *TradeRoundRepositoryImpl) Cancel(ctx context.Context, id uuid.UUID, from []entities.RoundStatus) error {
	result := GetDB(ctx, r.db).Model(&models.TradeRound{}).
		Where("id = ? AND status IN ?", id, roundStatusStrings(from)).
		Updates(map[string]interface{}{
			"status":     string(entities.RoundStatusCanceled),
			"updated_at": time.Now().UTC(),
		})
	return transitionResult(ctx, r.db, result, &models.TradeRound{}, id)
}

func (r *TradeRoundRepositoryImpl) Complete(ctx context.Context, id uuid.UUID, outcome, direction null.String) error {
	result := GetDB(ctx, r.db).Model(&models.TradeRound{}).
		Where("id = ? AND status = ?", id, string(entities.RoundStatusActive)).
		Updates(map[string]interface{}{
			"status":          string(entities.RoundStatusCompleted),
			"outcome":         outcome.Ptr(),
			"admin_direction": direction.Ptr(),
			"updated_at":      time.Now().UTC(),
		})
	return transitionResult(ctx, r.db, result, &models.TradeRound{}, id)
}

func (r *TradeRoundRepositoryImpl) List(ctx context.Context, statuses ...entities.RoundStatus) ([]*entities.TradeRound, error) {
	query := GetDB(ctx, r.db).Order("created_at DESC")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", roundStatusStrings(statuses))
	}
	return r.find(query)
}

func (r *TradeRoundRepositoryImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.TradeRound, error) {
	query := GetDB(ctx, r.db).
		Where("status = ? AND ends_at <= ?", string(entities.RoundStatusActive), now).
		Where("outcome IS NOT NULL OR admin_direction IS NOT NULL").
		Order("ends_at ASC").
		Limit(limit)
	return r.find(query)
}

func (r *TradeRoundRepositoryImpl) CountByStatus(ctx context.Context, status entities.RoundStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.TradeRound{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}

func (r *TradeRoundRepositoryImpl) find(query *gorm.DB) ([]*entities.TradeRound, error) {
	var ms []models.TradeRound
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	rounds := make([]*entities.TradeRound, 0, len(ms))
	for i := range ms {
		rounds = append(rounds, toRoundEntity(&ms[i]))
	}
	return rounds, nil
}

func toRoundEntity(m *models.TradeRound) *entities.TradeRound {
	return &entities.TradeRound{
		ID:              m.ID,
		Symbol:          m.Symbol,
		DurationSeconds: m.DurationSeconds,
		PayoutPercent:   m.PayoutPercent,
		Outcome:         null.StringFromPtr(m.Outcome),
		AdminDirection:  null.StringFromPtr(m.AdminDirection),
		Status:          entities.RoundStatus(m.Status),
		StartsAt:        null.TimeFromPtr(m.StartsAt),
		EndsAt:          null.TimeFromPtr(m.EndsAt),
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func roundStatusStrings(statuses []entities.RoundStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// TradeRepositoryImpl implements TradeRepository
type TradeRepositoryImpl struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) *TradeRepositoryImpl {
	return &TradeRepositoryImpl{db: db}
}

func (r *TradeRepositoryImpl) Create(ctx context.Context, trade *entities.Trade) error {
	now := time.Now().UTC()
	trade.CreatedAt = now
	trade.UpdatedAt = now
	m := &models.Trade{
		ID:        trade.ID,
		RoundID:   trade.RoundID,
		UserID:    trade.UserID,
		Direction: string(trade.Direction),
		Amount:    trade.Amount,
		Payout:    trade.Payout,
		Status:    string(trade.Status),
		SettledAt: trade.SettledAt.Ptr(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return mapError(GetDB(ctx, r.db).Create(m).Error)
}

func (r *TradeRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Trade, error) {
	query := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

func (r *TradeRepositoryImpl) ListPendingByRound(ctx context.Context, roundID uuid.UUID) ([]*entities.Trade, error) {
	query := GetDB(ctx, r.db).
		Where("round_id = ? AND status = ?", roundID, string(entities.TradeStatusPending)).
		Order("created_at ASC")
	return r.find(query)
}

func (r *TradeRepositoryImpl) Settle(ctx context.Context, id uuid.UUID, status entities.TradeStatus, payout decimal.Decimal, settledAt time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.Trade{}).
		Where("id = ? AND status = ?", id, string(entities.TradeStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(status),
			"payout":     payout,
			"settled_at": settledAt,
			"updated_at": time.Now().UTC(),
		})
	return transitionResult(ctx, r.db, result, &models.Trade{}, id)
}

func (r *TradeRepositoryImpl) SumProfitLossByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := GetDB(ctx, r.db).Model(&models.Trade{}).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(entities.TradeStatusWon),
			string(entities.TradeStatusLost),
			string(entities.TradeStatusDraw),
		})
	return sumColumn(query, "payout - amount")
}

func (r *TradeRepositoryImpl) find(query *gorm.DB) ([]*entities.Trade, error) {
	var ms []models.Trade
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	trades := make([]*entities.Trade, 0, len(ms))
	for i := range ms {
		trades = append(trades, toTradeEntity(&ms[i]))
	}
	return trades, nil
}

func toTradeEntity(m *models.Trade) *entities.Trade {
	return &entities.Trade{
		ID:        m.ID,
		RoundID:   m.RoundID,
		UserID:    m.UserID,
		Direction: entities.Direction(m.Direction),
		Amount:    m.Amount,
		Payout:    m.Payout,
		Status:    entities.TradeStatus(m.Status),
		SettledAt: null.TimeFromPtr(m.SettledAt),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
