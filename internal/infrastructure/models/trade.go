package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeRound struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Symbol          string          `gorm:"type:varchar(32);not null"`
	DurationSeconds int             `gorm:"not null"`
	PayoutPercent   decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	Outcome         *string         `gorm:"type:varchar(10)"`
	AdminDirection  *string         `gorm:"type:varchar(10)"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	StartsAt        *time.Time
	EndsAt          *time.Time `gorm:"index"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Trade struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RoundID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction string          `gorm:"type:varchar(10);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Payout    decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	Status    string          `gorm:"type:varchar(20);not null;index"`
	SettledAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
