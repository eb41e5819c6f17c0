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

type withdrawalService interface {
	Request(ctx context.Context, userID uuid.UUID, input *entities.CreateWithdrawalInput) (*entities.Withdrawal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status entities.WithdrawalStatus, page, limit int) ([]*entities.Withdrawal, int64, error)
	List(ctx context.Context, filter entities.WithdrawalFilter) ([]*entities.Withdrawal, int64, error)
	UpdateStatus(ctx context.Context, actorID, id uuid.UUID, input *entities.UpdateWithdrawalStatusInput) (*entities.Withdrawal, error)
}

// WithdrawalHandler handles withdrawal endpoints
type WithdrawalHandler struct {
	withdrawalUsecase withdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalUsecase withdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUsecase: withdrawalUsecase}
}

// RequestWithdrawal debits the balance and queues a payout
// POST /api/v1/withdrawals
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.CreateWithdrawalInput
	if !bindJSON(c, &input) {
		return
	}

	withdrawal, err := h.withdrawalUsecase.Request(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, withdrawal)
}

// ListWithdrawals lists the caller's withdrawals
// GET /api/v1/withdrawals
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	p := pageQuery(c)

	items, total, err := h.withdrawalUsecase.ListByUser(c.Request.Context(), userID, entities.WithdrawalStatus(c.Query("status")), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, items, total, p)
}

// AdminListWithdrawals lists every withdrawal
// GET /api/v1/admin/withdrawals
func (h *WithdrawalHandler) AdminListWithdrawals(c *gin.Context) {
	p := pageQuery(c)
	filter := entities.WithdrawalFilter{
		Status: entities.WithdrawalStatus(c.Query("status")),
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

	items, total, err := h.withdrawalUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, items, total, p)
}

// UpdateWithdrawalStatus moves a withdrawal to processing, paid or rejected
// PUT /api/v1/admin/withdrawals/:id/status
func (h *WithdrawalHandler) UpdateWithdrawalStatus(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.UpdateWithdrawalStatusInput
	if !bindJSON(c, &input) {
		return
	}

	withdrawal, err := h.withdrawalUsecase.UpdateStatus(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, withdrawal)
}
