package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const settingsCacheTTL = 5 * time.Second

// SettingsUsecase reads and updates the platform settings row. Reads are memoized
// briefly since every user write consults the maintenance flag.
type SettingsUsecase struct {
	repo      repositories.SettingsRepository
	auditRepo repositories.AuditLogRepository

	mu       sync.RWMutex
	cached   *entities.Settings
	cachedAt time.Time
}

// NewSettingsUsecase creates a new settings usecase
func NewSettingsUsecase(repo repositories.SettingsRepository, auditRepo repositories.AuditLogRepository) *SettingsUsecase {
	return &SettingsUsecase{repo: repo, auditRepo: auditRepo}
}

// Get returns the current settings.
func (u *SettingsUsecase) Get(ctx context.Context) (*entities.Settings, error) {
	u.mu.RLock()
	if u.cached != nil && time.Since(u.cachedAt) < settingsCacheTTL {
		s := *u.cached
		u.mu.RUnlock()
		return &s, nil
	}
	u.mu.RUnlock()

	s, err := u.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	u.store(s)
	out := *s
	return &out, nil
}

// GetPublic returns the subset shown to anonymous visitors.
func (u *SettingsUsecase) GetPublic(ctx context.Context) (*entities.PublicSettings, error) {
	s, err := u.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Public(), nil
}

// InMaintenance reports whether user writes are blocked.
func (u *SettingsUsecase) InMaintenance(ctx context.Context) (bool, error) {
	s, err := u.Get(ctx)
	if err != nil {
		return false, err
	}
	return s.MaintenanceMode, nil
}

// Update validates and saves the settings.
func (u *SettingsUsecase) Update(ctx context.Context, actorID uuid.UUID, input *entities.Settings) (*entities.Settings, error) {
	if err := validateSettings(input); err != nil {
		return nil, err
	}
	input.SiteName = strings.TrimSpace(input.SiteName)
	input.SupportEmail = strings.TrimSpace(input.SupportEmail)
	input.UpdatedAt = now()

	if err := u.repo.Save(ctx, input); err != nil {
		return nil, err
	}
	u.store(input)

	if err := recordAudit(ctx, u.auditRepo, actorID, entities.AuditSettingsUpdated, "settings", "1", input); err != nil {
		return nil, err
	}
	return input, nil
}

func (u *SettingsUsecase) store(s *entities.Settings) {
	copied := *s
	u.mu.Lock()
	u.cached = &copied
	u.cachedAt = time.Now()
	u.mu.Unlock()
}

func validateSettings(s *entities.Settings) error {
	if strings.TrimSpace(s.SiteName) == "" {
		return domainerrors.NewError("siteName is required", domainerrors.ErrInvalidInput)
	}
	for name, v := range map[string]decimal.Decimal{
		"minDeposit":    s.MinDeposit,
		"minWithdrawal": s.MinWithdrawal,
		"minTrade":      s.MinTrade,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", domainerrors.ErrInvalidInput, name)
		}
	}
	if s.MaxTrade.LessThan(s.MinTrade) {
		return fmt.Errorf("%w: maxTrade must be at least minTrade", domainerrors.ErrInvalidInput)
	}
	for name, v := range map[string]decimal.Decimal{
		"withdrawalFeePercent":      s.WithdrawalFeePercent,
		"referralCommissionPercent": s.ReferralCommissionPercent,
	} {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s must be between 0 and 100", domainerrors.ErrInvalidInput, name)
		}
	}
	return nil
}
