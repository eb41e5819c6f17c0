package handlers

import (
	"context"
	"net/http"
	"strconv"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type tradeService interface {
	ListOpenRounds(ctx context.Context) ([]*entities.TradeRound, error)
	ListRounds(ctx context.Context, status entities.RoundStatus) ([]*entities.TradeRound, error)
	CreateRound(ctx context.Context, actorID uuid.UUID, input *entities.RoundInput) (*entities.TradeRound, error)
	UpdateRound(ctx context.Context, actorID, id uuid.UUID, input *entities.RoundInput) (*entities.TradeRound, error)
	DeleteRound(ctx context.Context, actorID, id uuid.UUID) error
	ActivateRound(ctx context.Context, actorID, id uuid.UUID) (*entities.TradeRound, error)
	CancelRound(ctx context.Context, actorID, id uuid.UUID) (*entities.TradeRound, error)
	CompleteRound(ctx context.Context, actorID, id uuid.UUID, input *entities.CompleteRoundInput) (*entities.RoundSettlement, error)
	PlaceTrade(ctx context.Context, userID uuid.UUID, input *entities.PlaceTradeInput) (*entities.Trade, error)
	ListTrades(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Trade, error)
}

// TradeHandler handles trade rounds and trades
type TradeHandler struct {
	tradeUsecase tradeService
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(tradeUsecase tradeService) *TradeHandler {
	return &TradeHandler{tradeUsecase: tradeUsecase}
}

// ListOpenRounds returns scheduled and active rounds
// GET /api/v1/rounds
func (h *TradeHandler) ListOpenRounds(c *gin.Context) {
	rounds, err := h.tradeUsecase.ListOpenRounds(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": rounds})
}

// PlaceTrade stakes part of the balance on an active round
// POST /api/v1/trades
func (h *TradeHandler) PlaceTrade(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.PlaceTradeInput
	if !bindJSON(c, &input) {
		return
	}

	trade, err := h.tradeUsecase.PlaceTrade(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, trade)
}

// ListTrades GET /api/v1/trades?limit=50
func (h *TradeHandler) ListTrades(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	trades, err := h.tradeUsecase.ListTrades(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": trades})
}

// AdminListRounds GET /api/v1/admin/rounds?status=
func (h *TradeHandler) AdminListRounds(c *gin.Context) {
	rounds, err := h.tradeUsecase.ListRounds(c.Request.Context(), entities.RoundStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": rounds})
}

// CreateRound POST /api/v1/admin/rounds
func (h *TradeHandler) CreateRound(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.RoundInput
	if !bindJSON(c, &input) {
		return
	}

	round, err := h.tradeUsecase.CreateRound(c.Request.Context(), actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, round)
}

// UpdateRound PUT /api/v1/admin/rounds/:id
func (h *TradeHandler) UpdateRound(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.RoundInput
	if !bindJSON(c, &input) {
		return
	}

	round, err := h.tradeUsecase.UpdateRound(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, round)
}

// DeleteRound DELETE /api/v1/admin/rounds/:id
func (h *TradeHandler) DeleteRound(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tradeUsecase.DeleteRound(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Round deleted"})
}

// ActivateRound POST /api/v1/admin/rounds/:id/activate
func (h *TradeHandler) ActivateRound(c *gin.Context) {
	h.transition(c, h.tradeUsecase.ActivateRound)
}

// CancelRound POST /api/v1/admin/rounds/:id/cancel
func (h *TradeHandler) CancelRound(c *gin.Context) {
	h.transition(c, h.tradeUsecase.CancelRound)
}

func (h *TradeHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, id uuid.UUID) (*entities.TradeRound, error)) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	round, err := fn(c.Request.Context(), actorID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, round)
}

// CompleteRound settles every pending trade of an active round
// POST /api/v1/admin/rounds/:id/complete
func (h *TradeHandler) CompleteRound(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.CompleteRoundInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}

	settlement, err := h.tradeUsecase.CompleteRound(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, settlement)
}
