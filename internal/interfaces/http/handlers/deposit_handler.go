package handlers

import (
	"context"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type depositService interface {
	CreateDeposit(ctx context.Context, userID uuid.UUID, input *entities.CreateDepositInput) (*entities.Deposit, error)
	CreateInvoice(ctx context.Context, userID uuid.UUID, input *entities.CreateInvoiceInput) (*entities.InvoiceResponse, error)
	CreateDirectPayment(ctx context.Context, userID uuid.UUID, input *entities.DirectPaymentInput) (*entities.DirectPaymentResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status entities.DepositStatus, page, limit int) ([]*entities.Deposit, int64, error)
	List(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error)
	Approve(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error)
	Reject(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error)
}

// DepositHandler handles deposit endpoints
type DepositHandler struct {
	depositUsecase depositService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(depositUsecase depositService) *DepositHandler {
	return &DepositHandler{depositUsecase: depositUsecase}
}

// CreateDeposit records a manual transfer to a platform wallet
// POST /api/v1/deposits
func (h *DepositHandler) CreateDeposit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.CreateDepositInput
	if !bindJSON(c, &input) {
		return
	}

	deposit, err := h.depositUsecase.CreateDeposit(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, deposit)
}

// CreateInvoice starts a hosted checkout with the payment provider
// POST /api/v1/deposits/invoice
func (h *DepositHandler) CreateInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.CreateInvoiceInput
	if !bindJSON(c, &input) {
		return
	}

	invoice, err := h.depositUsecase.CreateInvoice(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, invoice)
}

// CreateDirectPayment asks the provider for a pay address
// POST /api/v1/payments/direct
func (h *DepositHandler) CreateDirectPayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.DirectPaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := h.depositUsecase.CreateDirectPayment(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, payment)
}

// ListDeposits lists the caller's deposits
// GET /api/v1/deposits
func (h *DepositHandler) ListDeposits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	p := pageQuery(c)

	items, total, err := h.depositUsecase.ListByUser(c.Request.Context(), userID, entities.DepositStatus(c.Query("status")), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, items, total, p)
}

// AdminListDeposits lists every deposit, optionally filtered by status and user
// GET /api/v1/admin/deposits
func (h *DepositHandler) AdminListDeposits(c *gin.Context) {
	p := pageQuery(c)
	filter := entities.DepositFilter{
		Status: entities.DepositStatus(c.Query("status")),
		Page:   p.Page,
		Limit:  p.Limit,
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid userId"))
			return
		}
		filter.UserID = &id
	}

	items, total, err := h.depositUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, items, total, p)
}

// ApproveDeposit credits a pending deposit
// POST /api/v1/admin/deposits/:id/approve
func (h *DepositHandler) ApproveDeposit(c *gin.Context) {
	h.review(c, h.depositUsecase.Approve)
}

// RejectDeposit rejects a pending deposit
// POST /api/v1/admin/deposits/:id/reject
func (h *DepositHandler) RejectDeposit(c *gin.Context) {
	h.review(c, h.depositUsecase.Reject)
}

func (h *DepositHandler) review(c *gin.Context, fn func(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error)) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.ReviewInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	deposit, err := fn(c.Request.Context(), actorID, id, input.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, deposit)
}
