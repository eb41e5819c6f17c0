package usecases

import (
	"context"
	"errors"
	"strings"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// KYCUsecase handles identity document submissions
type KYCUsecase struct {
	uow       repositories.UnitOfWork
	kycRepo   repositories.KYCRepository
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditLogRepository
}

// NewKYCUsecase creates a new KYC usecase
func NewKYCUsecase(uow repositories.UnitOfWork, kycRepo repositories.KYCRepository, userRepo repositories.UserRepository, auditRepo repositories.AuditLogRepository) *KYCUsecase {
	return &KYCUsecase{uow: uow, kycRepo: kycRepo, userRepo: userRepo, auditRepo: auditRepo}
}

// Submit stores a pending submission and marks the user pending. Verified users and
// users with a submission under review cannot submit again.
func (u *KYCUsecase) Submit(ctx context.Context, userID uuid.UUID, input *entities.SubmitKYCInput) (*entities.KYCRecord, error) {
	front := strings.TrimSpace(input.FrontURL)
	if front == "" || strings.TrimSpace(input.DocumentNumber) == "" {
		return nil, domainerrors.NewError("document number and front image are required", domainerrors.ErrInvalidInput)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch user.KYCStatus {
	case entities.KYCVerified:
		return nil, domainerrors.NewError("identity already verified", domainerrors.ErrAlreadyProcessed)
	case entities.KYCPending:
		return nil, domainerrors.NewError("a submission is already under review", domainerrors.ErrAlreadyProcessed)
	}

	record := &entities.KYCRecord{
		ID:             utils.GenerateUUIDv7(),
		UserID:         userID,
		DocumentType:   input.DocumentType,
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		FrontURL:       front,
		BackURL:        null.StringFromPtr(optionalString(input.BackURL)),
		SelfieURL:      null.StringFromPtr(optionalString(input.SelfieURL)),
		Status:         entities.KYCPending,
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.kycRepo.Create(txCtx, record); err != nil {
			return err
		}
		return u.userRepo.SetKYCStatus(txCtx, userID, entities.KYCPending)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetMine returns the caller's latest submission, or nil when there is none.
func (u *KYCUsecase) GetMine(ctx context.Context, userID uuid.UUID) (*entities.KYCRecord, error) {
	record, err := u.kycRepo.GetLatestByUser(ctx, userID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil
	}
	return record, err
}

// List lists submissions for review
func (u *KYCUsecase) List(ctx context.Context, status entities.KYCStatus, page, limit int) ([]*entities.KYCRecord, int64, error) {
	return u.kycRepo.List(ctx, status, page, limit)
}

// Review approves or rejects a pending submission and mirrors the decision on the user.
func (u *KYCUsecase) Review(ctx context.Context, actorID, id uuid.UUID, input *entities.ReviewKYCInput) (*entities.KYCRecord, error) {
	status := entities.KYCRejected
	if input.Approve {
		status = entities.KYCVerified
	}

	var record *entities.KYCRecord
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		r, err := u.kycRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := u.kycRepo.Review(txCtx, id, status, input.Note); err != nil {
			return err
		}
		if err := u.userRepo.SetKYCStatus(txCtx, r.UserID, status); err != nil {
			return err
		}
		if err := recordAudit(txCtx, u.auditRepo, actorID, entities.AuditKYCReviewed, "kyc", id.String(), map[string]string{
			"status": string(status),
			"note":   input.Note,
		}); err != nil {
			return err
		}
		r.Status = status
		r.AdminNote = null.StringFromPtr(optionalString(input.Note))
		r.ReviewedAt = null.TimeFrom(now())
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
