package repositories

import (
	"context"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// KYCRepository defines KYC submission operations
type KYCRepository interface {
	Create(ctx context.Context, record *entities.KYCRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCRecord, error)
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.KYCRecord, error)
	List(ctx context.Context, status entities.KYCStatus, page, limit int) ([]*entities.KYCRecord, int64, error)
	// Review decides a pending submission; ErrInvalidTransition if already reviewed.
	Review(ctx context.Context, id uuid.UUID, status entities.KYCStatus, note string) error
	CountByStatus(ctx context.Context, status entities.KYCStatus) (int64, error)
}

// CommissionRepository defines referral commission operations
type CommissionRepository interface {
	// Create fails with ErrAlreadyExists when the deposit already paid commission.
	Create(ctx context.Context, commission *entities.Commission) error
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entities.Commission, error)
	SumByReferrer(ctx context.Context, referrerID uuid.UUID) (decimal.Decimal, error)
}

// SettingsRepository persists the platform settings row
type SettingsRepository interface {
	// Get returns the stored settings or defaults when none were saved.
	Get(ctx context.Context) (*entities.Settings, error)
	Save(ctx context.Context, settings *entities.Settings) error
}

// AuditLogRepository stores admin actions
type AuditLogRepository interface {
	Create(ctx context.Context, log *entities.AuditLog) error
	List(ctx context.Context, page, limit int) ([]*entities.AuditLog, int64, error)
}

// ContactRepository stores contact form messages
type ContactRepository interface {
	Create(ctx context.Context, msg *entities.ContactMessage) error
	List(ctx context.Context, page, limit int) ([]*entities.ContactMessage, int64, error)
}
