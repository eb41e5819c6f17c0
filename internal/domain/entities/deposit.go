package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// DepositStatus represents deposit status
type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

// DepositMethod records how the deposit entered the system.
type DepositMethod string

const (
	DepositMethodManual  DepositMethod = "manual"
	DepositMethodInvoice DepositMethod = "invoice"
	DepositMethodIPN     DepositMethod = "ipn"
)

// Deposit represents a deposit entity
type Deposit struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	WalletID          *uuid.UUID      `json:"walletId,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Method            DepositMethod   `json:"method"`
	Status            DepositStatus   `json:"status"`
	ProofURL          null.String     `json:"proofUrl"`
	ProviderInvoiceID null.String     `json:"providerInvoiceId"`
	ProviderPaymentID null.String     `json:"providerPaymentId"`
	TxHash            null.String     `json:"txHash"`
	AdminNote         null.String     `json:"adminNote"`
	ReviewedAt        null.Time       `json:"reviewedAt"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// CreateDepositInput is a manually reported transfer to a platform deposit wallet.
type CreateDepositInput struct {
	WalletID uuid.UUID       `json:"walletId" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	ProofURL string          `json:"proofUrl" binding:"max=512"`
	TxHash   string          `json:"txHash" binding:"max=255"`
}

// CreateInvoiceInput asks the payment provider for a hosted checkout.
type CreateInvoiceInput struct {
	Amount      decimal.Decimal `json:"amount"`
	PayCurrency string          `json:"payCurrency" binding:"max=16"`
}

// InvoiceResponse is returned after the provider invoice is created.
type InvoiceResponse struct {
	Deposit    *Deposit `json:"deposit"`
	InvoiceID  string   `json:"invoiceId"`
	InvoiceURL string   `json:"invoiceUrl"`
}

// DirectPaymentInput asks the provider for a pay address.
type DirectPaymentInput struct {
	Amount      decimal.Decimal `json:"amount"`
	PayCurrency string          `json:"payCurrency" binding:"required,max=16"`
}

// DirectPaymentResponse carries the provider pay address for a pending deposit.
type DirectPaymentResponse struct {
	Deposit     *Deposit `json:"deposit"`
	PaymentID   string   `json:"paymentId"`
	PayAddress  string   `json:"payAddress"`
	PayAmount   string   `json:"payAmount"`
	PayCurrency string   `json:"payCurrency"`
}

// ReviewInput carries an optional admin note.
type ReviewInput struct {
	Note string `json:"note" binding:"max=500"`
}

// DepositFilter narrows deposit listings.
type DepositFilter struct {
	UserID *uuid.UUID
	Status DepositStatus
	Page   int
	Limit  int
}
