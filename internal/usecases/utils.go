package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/internal/infrastructure/events"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// now is replaced by tests that need a fixed clock.
var now = func() time.Time { return time.Now().UTC() }

// requirePositive rejects zero and negative amounts.
func requirePositive(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", domainerrors.ErrInvalidInput, field)
	}
	return nil
}

func requireMinimum(amount, minimum decimal.Decimal, what string) error {
	if amount.LessThan(minimum) {
		return fmt.Errorf("%w: minimum %s is %s", domainerrors.ErrBelowMinimum, what, minimum.String())
	}
	return nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// publish hands an event to the publisher. Failures are logged; the caller's
// transaction has already committed.
func publish(ctx context.Context, publisher events.Publisher, eventType string, userID *uuid.UUID, entityID uuid.UUID, payload interface{}) {
	if publisher == nil {
		return
	}
	event := &entities.Event{
		ID:         utils.GenerateUUIDv7(),
		Type:       eventType,
		UserID:     userID,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: now(),
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}

// recordAudit writes an audit row with ctx, so it joins the caller's transaction if any.
func recordAudit(ctx context.Context, repo repositories.AuditLogRepository, actorID uuid.UUID, action, entityType, entityID string, details interface{}) error {
	var text string
	switch v := details.(type) {
	case nil:
	case string:
		text = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		text = string(raw)
	}
	return repo.Create(ctx, &entities.AuditLog{
		ID:         utils.GenerateUUIDv7(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    text,
		CreatedAt:  now(),
	})
}

func userRef(id uuid.UUID) *uuid.UUID {
	return &id
}

var hundred = decimal.NewFromInt(100)
