package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

var hundred = decimal.NewFromInt(100)

// Package is an investment plan offered to users.
type Package struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  null.String     `json:"description"`
	DailyROI     decimal.Decimal `json:"dailyRoi"`
	DurationDays int             `json:"durationDays"`
	MinAmount    decimal.Decimal `json:"minAmount"`
	MaxAmount    decimal.Decimal `json:"maxAmount"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// InRange reports whether amount lies within [MinAmount, MaxAmount].
func (p *Package) InRange(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinAmount) && amount.LessThanOrEqual(p.MaxAmount)
}

// ProfitFor computes the total profit of an investment at maturity.
func ProfitFor(amount, dailyROI decimal.Decimal, durationDays int) decimal.Decimal {
	return amount.Mul(dailyROI).Div(hundred).Mul(decimal.NewFromInt(int64(durationDays))).Round(8)
}

// PackageInput is used for admin create and update.
type PackageInput struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Description  string          `json:"description" binding:"max=1000"`
	DailyROI     decimal.Decimal `json:"dailyRoi"`
	DurationDays int             `json:"durationDays" binding:"required,min=1,max=3650"`
	MinAmount    decimal.Decimal `json:"minAmount"`
	MaxAmount    decimal.Decimal `json:"maxAmount"`
	IsActive     *bool           `json:"isActive"`
}

// InvestmentStatus represents investment status
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusCompleted InvestmentStatus = "completed"
)

// Investment is a purchased package. DailyROI and DurationDays are copied from the
// package at purchase time so later package edits do not change settled terms.
type Investment struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"userId"`
	PackageID    uuid.UUID        `json:"packageId"`
	PackageName  string           `json:"packageName"`
	Amount       decimal.Decimal  `json:"amount"`
	DailyROI     decimal.Decimal  `json:"dailyRoi"`
	DurationDays int              `json:"durationDays"`
	Profit       decimal.Decimal  `json:"profit"`
	Status       InvestmentStatus `json:"status"`
	StartedAt    time.Time        `json:"startedAt"`
	MaturesAt    time.Time        `json:"maturesAt"`
	CompletedAt  null.Time        `json:"completedAt"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// PurchaseInput represents a package purchase
type PurchaseInput struct {
	PackageID uuid.UUID       `json:"packageId" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}
