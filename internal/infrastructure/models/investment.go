package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Package struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Description  *string         `gorm:"type:text"`
	DailyROI     decimal.Decimal `gorm:"column:daily_roi;type:numeric(10,4);not null"`
	DurationDays int             `gorm:"not null"`
	MinAmount    decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	MaxAmount    decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	IsActive     bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Investment struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PackageID    uuid.UUID       `gorm:"type:uuid;not null"`
	PackageName  string          `gorm:"type:varchar(100);not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	DailyROI     decimal.Decimal `gorm:"column:daily_roi;type:numeric(10,4);not null"`
	DurationDays int             `gorm:"not null"`
	Profit       decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;index"`
	StartedAt    time.Time       `gorm:"not null"`
	MaturesAt    time.Time       `gorm:"not null;index"`
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
