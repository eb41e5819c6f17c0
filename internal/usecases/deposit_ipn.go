package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/pkg/crypto"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/metrics"
	"fxvault.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// VerifyIPNSignature accepts the shared secret itself or the HMAC-SHA512 of the
// key-sorted JSON body.
func (u *DepositUsecase) VerifyIPNSignature(body []byte, signature string) bool {
	secret := u.paymentCfg.IPNSecret
	signature = strings.TrimSpace(signature)
	if secret == "" || signature == "" {
		return false
	}
	if crypto.SecureCompare(signature, secret) {
		return true
	}
	canonical, err := canonicalJSON(body)
	if err != nil {
		return false
	}
	return crypto.SecureCompare(strings.ToLower(signature), crypto.HMACSHA512Hex(secret, canonical))
}

// canonicalJSON re-encodes body with object keys sorted at every level.
func canonicalJSON(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// HandleIPN applies a verified provider notification. Redelivery of a settled payment
// is a no-op reported as IPNOutcomeDuplicate. An invoice may spawn several payments, so
// a notice only settles the invoice deposit when it carries the payment recorded on
// it, or when none is recorded yet.
func (u *DepositUsecase) HandleIPN(ctx context.Context, p *entities.IPNPayload) (entities.IPNOutcome, error) {
	if !p.Credits() && !p.Rejects() {
		logger.Info(ctx, "IPN status ignored", zap.String("status", p.PaymentStatus), zap.String("order_id", p.OrderID))
		metrics.IPNEvent(string(entities.IPNOutcomeIgnored))
		return entities.IPNOutcomeIgnored, nil
	}

	paymentID := p.PaymentID.String()
	outcome := entities.IPNOutcomeIgnored
	var credited *entities.Deposit
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		deposit, byPayment, err := u.findIPNDeposit(lockCtx, p)
		if err != nil {
			return err
		}

		if deposit != nil && !byPayment && separatePayment(deposit, paymentID) {
			if p.Rejects() {
				logger.Info(ctx, "IPN for another payment on the order ignored",
					zap.String("order_id", p.OrderID),
					zap.String("payment_id", paymentID),
				)
				return nil
			}
			deposit, err = u.insertIPNDeposit(txCtx, p, deposit.UserID)
			if err != nil {
				return err
			}
			if err := u.creditDeposit(lockCtx, deposit); err != nil {
				return err
			}
			outcome = entities.IPNOutcomeCredited
			credited = deposit
			return nil
		}

		if deposit == nil {
			if p.Rejects() {
				return nil
			}
			userID, ok, err := u.resolveIPNUser(txCtx, p)
			if err != nil || !ok {
				return err
			}
			deposit, err = u.insertIPNDeposit(txCtx, p, userID)
			if err != nil {
				return err
			}
			if err := u.creditDeposit(lockCtx, deposit); err != nil {
				return err
			}
			outcome = entities.IPNOutcomeCredited
			credited = deposit
			return nil
		}

		switch deposit.Status {
		case entities.DepositStatusApproved:
			outcome = entities.IPNOutcomeDuplicate
			return nil
		case entities.DepositStatusRejected:
			return nil
		}

		if paymentID != "" && !deposit.ProviderPaymentID.Valid {
			if err := u.depositRepo.AttachProviderPayment(txCtx, deposit.ID, paymentID, p.PayinHash); err != nil {
				return err
			}
			deposit.ProviderPaymentID = null.StringFrom(paymentID)
		}

		if p.Rejects() {
			if err := u.depositRepo.Transition(txCtx, deposit.ID, []entities.DepositStatus{entities.DepositStatusPending}, entities.DepositStatusRejected, "payment "+strings.ToLower(p.PaymentStatus)); err != nil {
				return err
			}
			outcome = entities.IPNOutcomeRejected
			return nil
		}

		if err := u.depositRepo.Transition(txCtx, deposit.ID, []entities.DepositStatus{entities.DepositStatusPending}, entities.DepositStatusApproved, "confirmed by payment provider"); err != nil {
			return err
		}
		if err := u.creditDeposit(lockCtx, deposit); err != nil {
			return err
		}
		deposit.Status = entities.DepositStatusApproved
		deposit.ReviewedAt = null.TimeFrom(now())
		outcome = entities.IPNOutcomeCredited
		credited = deposit
		return nil
	})
	if err != nil {
		// a concurrent delivery won the race and the transaction rolled back
		if errors.Is(err, domainerrors.ErrInvalidTransition) || errors.Is(err, domainerrors.ErrAlreadyExists) {
			metrics.IPNEvent(string(entities.IPNOutcomeDuplicate))
			return entities.IPNOutcomeDuplicate, nil
		}
		logger.Error(ctx, "IPN handling failed", zap.String("order_id", p.OrderID), zap.Error(err))
		return "", err
	}

	metrics.IPNEvent(string(outcome))
	if credited != nil {
		metrics.DepositCredited(string(credited.Method))
		u.publishApproved(ctx, credited)
	}
	logger.Info(ctx, "IPN processed",
		zap.String("order_id", p.OrderID),
		zap.String("payment_id", p.PaymentID.String()),
		zap.String("outcome", string(outcome)),
	)
	return outcome, nil
}

// separatePayment reports whether paymentID is a different provider payment than the
// one the order's deposit settled or is waiting on.
func separatePayment(d *entities.Deposit, paymentID string) bool {
	if paymentID == "" {
		return false
	}
	if d.ProviderPaymentID.Valid {
		return d.ProviderPaymentID.String != paymentID
	}
	return d.Status == entities.DepositStatusRejected
}

// findIPNDeposit looks a deposit up by provider payment id, then by order id. byPayment
// reports which lookup matched. A nil deposit with a nil error means neither did.
func (u *DepositUsecase) findIPNDeposit(ctx context.Context, p *entities.IPNPayload) (*entities.Deposit, bool, error) {
	if paymentID := p.PaymentID.String(); paymentID != "" {
		d, err := u.depositRepo.GetByProviderPaymentID(ctx, paymentID)
		if err == nil {
			return d, true, nil
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, false, err
		}
	}

	orderID, err := uuid.Parse(strings.TrimSpace(p.OrderID))
	if err != nil {
		return nil, false, nil
	}
	d, err := u.depositRepo.GetByID(ctx, orderID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, nil
	}
	return d, false, err
}

// resolveIPNUser maps an order id to the user who paid out of band. ok is false when
// the notification cannot be attributed and should be ignored.
func (u *DepositUsecase) resolveIPNUser(ctx context.Context, p *entities.IPNPayload) (uuid.UUID, bool, error) {
	if p.PaymentID.String() == "" {
		logger.Warn(ctx, "IPN without payment id ignored", zap.String("order_id", p.OrderID))
		return uuid.Nil, false, nil
	}
	userID, err := uuid.Parse(strings.TrimSpace(p.OrderID))
	if err != nil {
		logger.Warn(ctx, "IPN order id does not match a deposit or user", zap.String("order_id", p.OrderID))
		return uuid.Nil, false, nil
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "IPN order id does not match a deposit or user", zap.String("order_id", p.OrderID))
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return user.ID, true, nil
}

// insertIPNDeposit records an approved deposit keyed by the provider payment id.
func (u *DepositUsecase) insertIPNDeposit(ctx context.Context, p *entities.IPNPayload, userID uuid.UUID) (*entities.Deposit, error) {
	amount, err := decimal.NewFromString(p.PriceAmount.String())
	if err != nil || !amount.IsPositive() {
		return nil, domainerrors.NewError("invalid price_amount", domainerrors.ErrInvalidInput)
	}

	currency := strings.ToUpper(strings.TrimSpace(p.PriceCurrency))
	if currency == "" {
		currency = strings.ToUpper(u.paymentCfg.PriceCurrency)
	}
	deposit := &entities.Deposit{
		ID:                utils.GenerateUUIDv7(),
		UserID:            userID,
		Amount:            amount,
		Currency:          currency,
		Method:            entities.DepositMethodIPN,
		Status:            entities.DepositStatusApproved,
		ProviderPaymentID: null.StringFrom(p.PaymentID.String()),
		TxHash:            null.StringFromPtr(optionalString(p.PayinHash)),
		AdminNote:         null.StringFrom("confirmed by payment provider"),
		ReviewedAt:        null.TimeFrom(now()),
	}
	if err := u.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}
	return deposit, nil
}
