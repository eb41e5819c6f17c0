package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Deposit struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	WalletID          *uuid.UUID      `gorm:"type:uuid"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Currency          string          `gorm:"type:varchar(16);not null"`
	Method            string          `gorm:"type:varchar(20);not null"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	ProofURL          *string         `gorm:"column:proof_url;type:varchar(512)"`
	ProviderInvoiceID *string         `gorm:"type:varchar(64)"`
	ProviderPaymentID *string         `gorm:"type:varchar(64);uniqueIndex"`
	TxHash            *string         `gorm:"type:varchar(255)"`
	AdminNote         *string         `gorm:"type:text"`
	ReviewedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Withdrawal struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	WalletID    uuid.UUID       `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Fee         decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	NetAmount   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Destination string          `gorm:"type:varchar(255);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	TxHash      *string         `gorm:"type:varchar(255)"`
	AdminNote   *string         `gorm:"type:text"`
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
