package entities

import (
	"encoding/json"
	"strings"
)

// IPN payment statuses sent by the payment provider.
const (
	IPNStatusWaiting    = "waiting"
	IPNStatusConfirming = "confirming"
	IPNStatusConfirmed  = "confirmed"
	IPNStatusFinished   = "finished"
	IPNStatusFailed     = "failed"
	IPNStatusExpired    = "expired"
	IPNStatusRefunded   = "refunded"
)

// IPNPayload is the subset of the provider notification the platform acts on.
type IPNPayload struct {
	PaymentID     json.Number `json:"payment_id"`
	InvoiceID     json.Number `json:"invoice_id"`
	PaymentStatus string      `json:"payment_status"`
	OrderID       string      `json:"order_id"`
	PriceAmount   json.Number `json:"price_amount"`
	PriceCurrency string      `json:"price_currency"`
	PayAmount     json.Number `json:"pay_amount"`
	ActuallyPaid  json.Number `json:"actually_paid"`
	PayCurrency   string      `json:"pay_currency"`
	PayinHash     string      `json:"payin_hash"`
}

// Credits reports whether the status settles the payment.
func (p IPNPayload) Credits() bool {
	switch strings.ToLower(p.PaymentStatus) {
	case IPNStatusFinished, IPNStatusConfirmed:
		return true
	}
	return false
}

// Rejects reports whether the status terminally fails the payment.
func (p IPNPayload) Rejects() bool {
	switch strings.ToLower(p.PaymentStatus) {
	case IPNStatusFailed, IPNStatusExpired, IPNStatusRefunded:
		return true
	}
	return false
}

// IPNOutcome describes what a delivery did.
type IPNOutcome string

const (
	IPNOutcomeCredited  IPNOutcome = "credited"
	IPNOutcomeDuplicate IPNOutcome = "duplicate"
	IPNOutcomeRejected  IPNOutcome = "rejected"
	IPNOutcomeIgnored   IPNOutcome = "ignored"
)
