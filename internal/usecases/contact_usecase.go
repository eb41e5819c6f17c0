package usecases

import (
	"context"
	"strings"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/utils"
	"go.uber.org/zap"
)

// ContactUsecase stores public contact form messages
type ContactUsecase struct {
	contactRepo repositories.ContactRepository
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(contactRepo repositories.ContactRepository) *ContactUsecase {
	return &ContactUsecase{contactRepo: contactRepo}
}

// Submit stores a message from the public contact form
func (u *ContactUsecase) Submit(ctx context.Context, input *entities.ContactInput, ipAddress string) (*entities.ContactMessage, error) {
	msg := &entities.ContactMessage{
		ID:        utils.GenerateUUIDv7(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		IPAddress: ipAddress,
		CreatedAt: now(),
	}
	if err := u.contactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Contact message received", zap.String("message_id", msg.ID.String()))
	return msg, nil
}

// List lists contact messages for the back office
func (u *ContactUsecase) List(ctx context.Context, page, limit int) ([]*entities.ContactMessage, int64, error) {
	return u.contactRepo.List(ctx, page, limit)
}
