package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// WalletKind tells whether a platform wallet receives deposits or defines a withdrawal method.
type WalletKind string

const (
	WalletKindDeposit    WalletKind = "deposit"
	WalletKindWithdrawal WalletKind = "withdrawal"
)

// Valid reports whether k is a known kind.
func (k WalletKind) Valid() bool {
	return k == WalletKindDeposit || k == WalletKindWithdrawal
}

// Wallet is a platform configured payment method
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Kind      WalletKind      `json:"kind"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Network   null.String     `json:"network"`
	Address   null.String     `json:"address"`
	MinAmount decimal.Decimal `json:"minAmount"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// WalletInput is used for admin create and update.
type WalletInput struct {
	Kind      WalletKind      `json:"kind" binding:"required"`
	Name      string          `json:"name" binding:"required,max=100"`
	Currency  string          `json:"currency" binding:"required,max=16"`
	Network   string          `json:"network" binding:"max=64"`
	Address   string          `json:"address" binding:"max=255"`
	MinAmount decimal.Decimal `json:"minAmount"`
	IsActive  *bool           `json:"isActive"`
}
