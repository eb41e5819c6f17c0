package entities

import (
	"time"

	"github.com/google/uuid"
)

// Domain event types
const (
	EventDepositApproved     = "deposit.approved"
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalUpdated   = "withdrawal.updated"
	EventInvestmentCompleted = "investment.completed"
	EventRoundCompleted      = "round.completed"
)

// Event is published after the transaction that produced it commits.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	UserID     *uuid.UUID  `json:"userId,omitempty"`
	EntityID   uuid.UUID   `json:"entityId"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurredAt"`
}
