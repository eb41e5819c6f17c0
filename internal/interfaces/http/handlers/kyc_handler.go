package handlers

import (
	"context"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type kycService interface {
	Submit(ctx context.Context, userID uuid.UUID, input *entities.SubmitKYCInput) (*entities.KYCRecord, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*entities.KYCRecord, error)
	List(ctx context.Context, status entities.KYCStatus, page, limit int) ([]*entities.KYCRecord, int64, error)
	Review(ctx context.Context, actorID, id uuid.UUID, input *entities.ReviewKYCInput) (*entities.KYCRecord, error)
}

// KYCHandler handles identity verification endpoints
type KYCHandler struct {
	kycUsecase kycService
}

// NewKYCHandler creates a new KYC handler
func NewKYCHandler(kycUsecase kycService) *KYCHandler {
	return &KYCHandler{kycUsecase: kycUsecase}
}

// Submit POST /api/v1/kyc
func (h *KYCHandler) Submit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.SubmitKYCInput
	if !bindJSON(c, &input) {
		return
	}

	record, err := h.kycUsecase.Submit(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, record)
}

// GetMine returns the latest submission, or null when there is none
// GET /api/v1/kyc
func (h *KYCHandler) GetMine(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	record, err := h.kycUsecase.GetMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": record})
}

// AdminList GET /api/v1/admin/kyc?status=pending
func (h *KYCHandler) AdminList(c *gin.Context) {
	p := pageQuery(c)

	items, total, err := h.kycUsecase.List(c.Request.Context(), entities.KYCStatus(c.Query("status")), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, items, total, p)
}

// Review POST /api/v1/admin/kyc/:id/review
func (h *KYCHandler) Review(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.ReviewKYCInput
	if !bindJSON(c, &input) {
		return
	}

	record, err := h.kycUsecase.Review(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}
