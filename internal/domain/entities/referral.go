package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission is paid to a referrer when a referred user's deposit is approved.
type Commission struct {
	ID             uuid.UUID       `json:"id"`
	ReferrerID     uuid.UUID       `json:"referrerId"`
	ReferredUserID uuid.UUID       `json:"referredUserId"`
	DepositID      uuid.UUID       `json:"depositId"`
	Amount         decimal.Decimal `json:"amount"`
	Percent        decimal.Decimal `json:"percent"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Referral is a user who signed up with someone else's code.
type Referral struct {
	UserID   uuid.UUID `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ReferralSummary is the referral page read model.
type ReferralSummary struct {
	ReferralCode    string          `json:"referralCode"`
	Referrals       []*Referral     `json:"referrals"`
	Commissions     []*Commission   `json:"commissions"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
}
