package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single platform configuration row.
type Settings struct {
	SiteName                  string          `json:"siteName"`
	SupportEmail              string          `json:"supportEmail"`
	MinDeposit                decimal.Decimal `json:"minDeposit"`
	MinWithdrawal             decimal.Decimal `json:"minWithdrawal"`
	WithdrawalFeePercent      decimal.Decimal `json:"withdrawalFeePercent"`
	MinTrade                  decimal.Decimal `json:"minTrade"`
	MaxTrade                  decimal.Decimal `json:"maxTrade"`
	ReferralCommissionPercent decimal.Decimal `json:"referralCommissionPercent"`
	KYCRequiredForWithdrawal  bool            `json:"kycRequiredForWithdrawal"`
	MaintenanceMode           bool            `json:"maintenanceMode"`
	UpdatedAt                 time.Time       `json:"updatedAt"`
}

// DefaultSettings is used until an admin saves the first row.
func DefaultSettings() *Settings {
	return &Settings{
		SiteName:                  "FXVault",
		SupportEmail:              "support@fxvault.local",
		MinDeposit:                decimal.NewFromInt(10),
		MinWithdrawal:             decimal.NewFromInt(10),
		WithdrawalFeePercent:      decimal.Zero,
		MinTrade:                  decimal.NewFromInt(1),
		MaxTrade:                  decimal.NewFromInt(10000),
		ReferralCommissionPercent: decimal.NewFromInt(5),
	}
}

// WithdrawalFee returns amount * WithdrawalFeePercent / 100.
func (s *Settings) WithdrawalFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.WithdrawalFeePercent).Div(hundred).Round(8)
}

// ReferralCommission returns amount * ReferralCommissionPercent / 100.
func (s *Settings) ReferralCommission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.ReferralCommissionPercent).Div(hundred).Round(8)
}

// PublicSettings is the subset exposed without authentication.
type PublicSettings struct {
	SiteName        string          `json:"siteName"`
	SupportEmail    string          `json:"supportEmail"`
	MinDeposit      decimal.Decimal `json:"minDeposit"`
	MinWithdrawal   decimal.Decimal `json:"minWithdrawal"`
	MinTrade        decimal.Decimal `json:"minTrade"`
	MaxTrade        decimal.Decimal `json:"maxTrade"`
	MaintenanceMode bool            `json:"maintenanceMode"`
}

// Public strips operator only fields.
func (s *Settings) Public() *PublicSettings {
	return &PublicSettings{
		SiteName:        s.SiteName,
		SupportEmail:    s.SupportEmail,
		MinDeposit:      s.MinDeposit,
		MinWithdrawal:   s.MinWithdrawal,
		MinTrade:        s.MinTrade,
		MaxTrade:        s.MaxTrade,
		MaintenanceMode: s.MaintenanceMode,
	}
}
