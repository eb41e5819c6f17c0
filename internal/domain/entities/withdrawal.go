package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// WithdrawalStatus represents withdrawal status
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusPaid       WithdrawalStatus = "paid"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// AllowedFrom lists the statuses a withdrawal may move out of to reach s.
func (s WithdrawalStatus) AllowedFrom() []WithdrawalStatus {
	switch s {
	case WithdrawalStatusProcessing:
		return []WithdrawalStatus{WithdrawalStatusPending}
	case WithdrawalStatusPaid:
		return []WithdrawalStatus{WithdrawalStatusProcessing}
	case WithdrawalStatusRejected:
		return []WithdrawalStatus{WithdrawalStatusPending, WithdrawalStatusProcessing}
	}
	return nil
}

// IsFinal reports whether s closes the withdrawal.
func (s WithdrawalStatus) IsFinal() bool {
	return s == WithdrawalStatusPaid || s == WithdrawalStatusRejected
}

// Withdrawal represents a payout request. Amount is debited in full when requested;
// NetAmount is what leaves the platform after the fee.
type Withdrawal struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	WalletID    uuid.UUID        `json:"walletId"`
	Amount      decimal.Decimal  `json:"amount"`
	Fee         decimal.Decimal  `json:"fee"`
	NetAmount   decimal.Decimal  `json:"netAmount"`
	Destination string           `json:"destination"`
	Status      WithdrawalStatus `json:"status"`
	TxHash      null.String      `json:"txHash"`
	AdminNote   null.String      `json:"adminNote"`
	ProcessedAt null.Time        `json:"processedAt"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CreateWithdrawalInput represents a withdrawal request
type CreateWithdrawalInput struct {
	WalletID    uuid.UUID       `json:"walletId" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Destination string          `json:"destination" binding:"required,max=255"`
}

// UpdateWithdrawalStatusInput is the admin transition request.
type UpdateWithdrawalStatusInput struct {
	Status WithdrawalStatus `json:"status" binding:"required,oneof=processing paid rejected"`
	TxHash string           `json:"txHash" binding:"max=255"`
	Note   string           `json:"note" binding:"max=500"`
}

// WithdrawalFilter narrows withdrawal listings.
type WithdrawalFilter struct {
	UserID *uuid.UUID
	Status WithdrawalStatus
	Page   int
	Limit  int
}
