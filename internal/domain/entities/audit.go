package entities

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	AuditDepositApproved   = "deposit.approved"
	AuditDepositRejected   = "deposit.rejected"
	AuditWithdrawalUpdated = "withdrawal.updated"
	AuditBalanceAdjusted   = "user.balance_adjusted"
	AuditUserBanToggled    = "user.ban_toggled"
	AuditUserRoleToggled   = "user.role_toggled"
	AuditUserPasswordReset = "user.password_reset"
	AuditPackageSaved      = "package.saved"
	AuditPackageDeleted    = "package.deleted"
	AuditPackageToggled    = "package.toggled"
	AuditWalletSaved       = "wallet.saved"
	AuditWalletDeleted     = "wallet.deleted"
	AuditWalletToggled     = "wallet.toggled"
	AuditRoundSaved        = "round.saved"
	AuditRoundActivated    = "round.activated"
	AuditRoundCanceled     = "round.canceled"
	AuditRoundCompleted    = "round.completed"
	AuditKYCReviewed       = "kyc.reviewed"
	AuditSettingsUpdated   = "settings.updated"
)

// AuditLog records an admin mutation.
type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	ActorID    uuid.UUID `json:"actorId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ContactMessage is a public contact form submission.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IPAddress string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactInput represents the contact form
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}
