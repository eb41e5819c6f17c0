package entities

import (
	"github.com/shopspring/decimal"
)

// AdjustBalanceInput credits (positive) or debits (negative) a user balance.
type AdjustBalanceInput struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"required,max=500"`
}

// ResetPasswordInput sets a new password for a user.
type ResetPasswordInput struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// Dashboard is the user dashboard read model.
type Dashboard struct {
	User                   *User           `json:"user"`
	TotalDeposits          decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals       decimal.Decimal `json:"totalWithdrawals"`
	ActiveInvestmentAmount decimal.Decimal `json:"activeInvestmentAmount"`
	InvestmentProfit       decimal.Decimal `json:"investmentProfit"`
	TradeProfitLoss        decimal.Decimal `json:"tradeProfitLoss"`
	RecentDeposits         []*Deposit      `json:"recentDeposits"`
	RecentWithdrawals      []*Withdrawal   `json:"recentWithdrawals"`
	RecentTrades           []*Trade        `json:"recentTrades"`
	ActiveInvestments      []*Investment   `json:"activeInvestments"`
}

// AdminOverview is the back office landing read model.
type AdminOverview struct {
	TotalUsers         int64           `json:"totalUsers"`
	PendingDeposits    int64           `json:"pendingDeposits"`
	PendingDepositSum  decimal.Decimal `json:"pendingDepositSum"`
	PendingWithdrawals int64           `json:"pendingWithdrawals"`
	PendingWithdrawSum decimal.Decimal `json:"pendingWithdrawalSum"`
	ActiveInvestments  int64           `json:"activeInvestments"`
	ActiveRounds       int64           `json:"activeRounds"`
	TotalBalances      decimal.Decimal `json:"totalBalances"`
	PendingKYC         int64           `json:"pendingKyc"`
}

// UserDetail is the admin user page read model.
type UserDetail struct {
	User             *User           `json:"user"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	Investments      []*Investment   `json:"investments"`
	RecentTrades     []*Trade        `json:"recentTrades"`
	ReferralCount    int64           `json:"referralCount"`
}
