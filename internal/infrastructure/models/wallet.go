package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind      string          `gorm:"type:varchar(20);not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Currency  string          `gorm:"type:varchar(16);not null"`
	Network   *string         `gorm:"type:varchar(64)"`
	Address   *string         `gorm:"type:varchar(255)"`
	MinAmount decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
