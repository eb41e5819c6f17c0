package usecases

import (
	"context"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/domain/repositories"
	"github.com/google/uuid"
)

// ReferralUsecase builds the referral page
type ReferralUsecase struct {
	userRepo       repositories.UserRepository
	commissionRepo repositories.CommissionRepository
}

// NewReferralUsecase creates a new referral usecase
func NewReferralUsecase(userRepo repositories.UserRepository, commissionRepo repositories.CommissionRepository) *ReferralUsecase {
	return &ReferralUsecase{userRepo: userRepo, commissionRepo: commissionRepo}
}

// GetSummary returns the caller's code, referred users and earned commissions.
func (u *ReferralUsecase) GetSummary(ctx context.Context, userID uuid.UUID) (*entities.ReferralSummary, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	referred, err := u.userRepo.ListReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}
	commissions, err := u.commissionRepo.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := u.commissionRepo.SumByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	referrals := make([]*entities.Referral, 0, len(referred))
	for _, r := range referred {
		referrals = append(referrals, &entities.Referral{
			UserID:   r.ID,
			Name:     r.Name,
			Email:    maskEmail(r.Email),
			JoinedAt: r.CreatedAt,
		})
	}
	if commissions == nil {
		commissions = []*entities.Commission{}
	}

	return &entities.ReferralSummary{
		ReferralCode:    user.ReferralCode,
		Referrals:       referrals,
		Commissions:     commissions,
		TotalCommission: total,
	}, nil
}

// maskEmail keeps the first character of the local part: "jane@x.io" -> "j***@x.io".
func maskEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			if i == 0 {
				return email
			}
			return email[:1] + "***" + email[i:]
		}
	}
	return email
}
