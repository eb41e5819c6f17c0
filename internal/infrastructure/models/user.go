package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Phone        *string         `gorm:"type:varchar(32)"`
	Country      *string         `gorm:"type:varchar(64)"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	Role         string          `gorm:"type:varchar(20);not null;default:'user'"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	KYCStatus    string          `gorm:"column:kyc_status;type:varchar(20);not null;default:'none'"`
	IsBanned     bool            `gorm:"not null;default:false"`
	ReferralCode string          `gorm:"type:varchar(16);uniqueIndex;not null"`
	ReferredBy   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
