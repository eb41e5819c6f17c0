package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type KYCRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentType   string    `gorm:"type:varchar(32);not null"`
	DocumentNumber string    `gorm:"type:varchar(64);not null"`
	FrontURL       string    `gorm:"column:front_url;type:varchar(512);not null"`
	BackURL        *string   `gorm:"column:back_url;type:varchar(512)"`
	SelfieURL      *string   `gorm:"column:selfie_url;type:varchar(512)"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	AdminNote      *string   `gorm:"type:text"`
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (KYCRecord) TableName() string {
	return "kyc_records"
}

type Commission struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReferrerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferredUserID uuid.UUID       `gorm:"type:uuid;not null"`
	DepositID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Percent        decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	CreatedAt      time.Time
}

// PlatformSettings is a single row table keyed by ID 1.
type PlatformSettings struct {
	ID                        int             `gorm:"primaryKey"`
	SiteName                  string          `gorm:"type:varchar(100);not null"`
	SupportEmail              string          `gorm:"type:varchar(255);not null"`
	MinDeposit                decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	MinWithdrawal             decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	WithdrawalFeePercent      decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	MinTrade                  decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	MaxTrade                  decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	ReferralCommissionPercent decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	KYCRequiredForWithdrawal  bool            `gorm:"column:kyc_required_for_withdrawal;not null"`
	MaintenanceMode           bool            `gorm:"not null"`
	UpdatedAt                 time.Time
}

func (PlatformSettings) TableName() string {
	return "platform_settings"
}

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(64);not null"`
	EntityType string    `gorm:"type:varchar(32);not null"`
	EntityID   string    `gorm:"type:varchar(64);not null"`
	Details    string    `gorm:"type:text"`
	CreatedAt  time.Time
}

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Subject   string    `gorm:"type:varchar(200);not null"`
	Message   string    `gorm:"type:text;not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(64)"`
	CreatedAt time.Time
}
