package handlers

import (
	"context"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type investmentService interface {
	ListPackages(ctx context.Context, includeInactive bool) ([]*entities.Package, error)
	CreatePackage(ctx context.Context, actorID uuid.UUID, input *entities.PackageInput) (*entities.Package, error)
	UpdatePackage(ctx context.Context, actorID, id uuid.UUID, input *entities.PackageInput) (*entities.Package, error)
	DeletePackage(ctx context.Context, actorID, id uuid.UUID) error
	TogglePackage(ctx context.Context, actorID, id uuid.UUID) (*entities.Package, error)
	Purchase(ctx context.Context, userID uuid.UUID, input *entities.PurchaseInput) (*entities.Investment, error)
	ListInvestments(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) ([]*entities.Investment, error)
}

// InvestmentHandler handles packages and investments
type InvestmentHandler struct {
	investmentUsecase investmentService
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(investmentUsecase investmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentUsecase: investmentUsecase}
}

// ListPackages returns active packages
// GET /api/v1/packages
func (h *InvestmentHandler) ListPackages(c *gin.Context) {
	h.listPackages(c, false)
}

// AdminListPackages returns every package
// GET /api/v1/admin/packages
func (h *InvestmentHandler) AdminListPackages(c *gin.Context) {
	h.listPackages(c, true)
}

func (h *InvestmentHandler) listPackages(c *gin.Context, includeInactive bool) {
	packages, err := h.investmentUsecase.ListPackages(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": packages})
}

// CreatePackage POST /api/v1/admin/packages
func (h *InvestmentHandler) CreatePackage(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.PackageInput
	if !bindJSON(c, &input) {
		return
	}

	pkg, err := h.investmentUsecase.CreatePackage(c.Request.Context(), actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, pkg)
}

// UpdatePackage PUT /api/v1/admin/packages/:id
func (h *InvestmentHandler) UpdatePackage(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.PackageInput
	if !bindJSON(c, &input) {
		return
	}

	pkg, err := h.investmentUsecase.UpdatePackage(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, pkg)
}

// DeletePackage DELETE /api/v1/admin/packages/:id
func (h *InvestmentHandler) DeletePackage(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.investmentUsecase.DeletePackage(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Package deleted"})
}

// TogglePackage POST /api/v1/admin/packages/:id/toggle
func (h *InvestmentHandler) TogglePackage(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	pkg, err := h.investmentUsecase.TogglePackage(c.Request.Context(), actorID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, pkg)
}

// Purchase buys a package from the caller's balance
// POST /api/v1/investments
func (h *InvestmentHandler) Purchase(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.PurchaseInput
	if !bindJSON(c, &input) {
		return
	}

	investment, err := h.investmentUsecase.Purchase(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, investment)
}

// ListInvestments GET /api/v1/investments?status=active
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	items, err := h.investmentUsecase.ListInvestments(c.Request.Context(), userID, entities.InvestmentStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items})
}
