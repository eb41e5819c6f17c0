package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/interfaces/http/response"
	"fxvault.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IPNSignatureHeader carries the provider signature of the raw body.
const IPNSignatureHeader = "x-nowpayments-sig"

const maxIPNBody = 1 << 20

type ipnService interface {
	VerifyIPNSignature(body []byte, signature string) bool
	HandleIPN(ctx context.Context, p *entities.IPNPayload) (entities.IPNOutcome, error)
}

// PaymentWebhookHandler receives payment provider notifications
type PaymentWebhookHandler struct {
	depositUsecase ipnService
}

// NewPaymentWebhookHandler creates a new payment webhook handler
func NewPaymentWebhookHandler(depositUsecase ipnService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{depositUsecase: depositUsecase}
}

// HandleIPN verifies and applies an instant payment notification. Deliveries that
// were already applied are acknowledged with 200 so the provider stops retrying.
// POST /api/v1/payments/ipn
func (h *PaymentWebhookHandler) HandleIPN(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIPNBody))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Failed to read body"))
		return
	}

	if !h.depositUsecase.VerifyIPNSignature(body, c.GetHeader(IPNSignatureHeader)) {
		logger.Warn(ctx, "IPN signature mismatch", zap.String("client_ip", c.ClientIP()))
		response.Error(c, domainerrors.ErrInvalidSignature)
		return
	}

	var payload entities.IPNPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid IPN payload"))
		return
	}

	outcome, err := h.depositUsecase.HandleIPN(ctx, &payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true, "outcome": outcome})
}
