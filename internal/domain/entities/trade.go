package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// RoundStatus represents trade round status
type RoundStatus string

const (
	RoundStatusScheduled RoundStatus = "scheduled"
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
	RoundStatusCanceled  RoundStatus = "canceled"
)

// RoundOutcome is the operator declared result applied to every trade of a round.
type RoundOutcome string

const (
	OutcomeWin  RoundOutcome = "win"
	OutcomeLose RoundOutcome = "lose"
	OutcomeDraw RoundOutcome = "draw"
)

// Valid reports whether o is a known outcome.
func (o RoundOutcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLose || o == OutcomeDraw
}

// Direction is the side a trade bets on.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// TradeRound is an operator-declared simulated round. Results are never market derived.
type TradeRound struct {
	ID              uuid.UUID       `json:"id"`
	Symbol          string          `json:"symbol"`
	DurationSeconds int             `json:"durationSeconds"`
	PayoutPercent   decimal.Decimal `json:"payoutPercent"`
	Outcome         null.String     `json:"outcome"`
	AdminDirection  null.String     `json:"adminDirection"`
	Status          RoundStatus     `json:"status"`
	StartsAt        null.Time       `json:"startsAt"`
	EndsAt          null.Time       `json:"endsAt"`
	CreatedBy       uuid.UUID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// HasResult reports whether the round carries enough information to be settled.
func (r *TradeRound) HasResult() bool {
	return r.Outcome.Valid || r.AdminDirection.Valid
}

// OpenForTrading reports whether trades may be placed at t.
func (r *TradeRound) OpenForTrading(t time.Time) bool {
	return r.Status == RoundStatusActive && r.EndsAt.Valid && t.Before(r.EndsAt.Time)
}

// ResultFor decides a single trade. Admin direction wins over the declared outcome.
func (r *TradeRound) ResultFor(d Direction) TradeStatus {
	if r.AdminDirection.Valid {
		if Direction(r.AdminDirection.String) == d {
			return TradeStatusWon
		}
		return TradeStatusLost
	}
	switch RoundOutcome(r.Outcome.String) {
	case OutcomeWin:
		return TradeStatusWon
	case OutcomeDraw:
		return TradeStatusDraw
	default:
		return TradeStatusLost
	}
}

// RoundInput is used for admin create and update.
type RoundInput struct {
	Symbol          string          `json:"symbol" binding:"required,max=32"`
	DurationSeconds int             `json:"durationSeconds" binding:"required,min=10,max=86400"`
	PayoutPercent   decimal.Decimal `json:"payoutPercent"`
	Outcome         RoundOutcome    `json:"outcome"`
	AdminDirection  Direction       `json:"adminDirection"`
}

// CompleteRoundInput optionally supplies the result at completion time.
type CompleteRoundInput struct {
	Outcome        RoundOutcome `json:"outcome"`
	AdminDirection Direction    `json:"adminDirection"`
}

// TradeStatus represents trade status
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "pending"
	TradeStatusWon      TradeStatus = "won"
	TradeStatusLost     TradeStatus = "lost"
	TradeStatusDraw     TradeStatus = "draw"
	TradeStatusRefunded TradeStatus = "refunded"
)

// Trade is a user stake on a round.
type Trade struct {
	ID        uuid.UUID       `json:"id"`
	RoundID   uuid.UUID       `json:"roundId"`
	UserID    uuid.UUID       `json:"userId"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Payout    decimal.Decimal `json:"payout"`
	Status    TradeStatus     `json:"status"`
	SettledAt null.Time       `json:"settledAt"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PayoutFor returns the amount credited for a settled trade.
func PayoutFor(stake, payoutPercent decimal.Decimal, status TradeStatus) decimal.Decimal {
	switch status {
	case TradeStatusWon:
		return stake.Add(stake.Mul(payoutPercent).Div(hundred)).Round(8)
	case TradeStatusDraw, TradeStatusRefunded:
		return stake
	default:
		return decimal.Zero
	}
}

// PlaceTradeInput represents a trade on an active round
type PlaceTradeInput struct {
	RoundID   uuid.UUID       `json:"roundId" binding:"required"`
	Direction Direction       `json:"direction" binding:"required,oneof=up down"`
	Amount    decimal.Decimal `json:"amount"`
}

// RoundSettlement summarizes a completed round.
type RoundSettlement struct {
	Round   *TradeRound `json:"round"`
	Settled int         `json:"settled"`
	Won     int         `json:"won"`
	Lost    int         `json:"lost"`
	Draw    int         `json:"draw"`
}
