package handlers

import (
	"context"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type dashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*entities.Dashboard, error)
	GetAdminOverview(ctx context.Context) (*entities.AdminOverview, error)
}

type referralService interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*entities.ReferralSummary, error)
}

// DashboardHandler serves the read models
type DashboardHandler struct {
	dashboardUsecase dashboardService
	referralUsecase  referralService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUsecase dashboardService, referralUsecase referralService) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		referralUsecase:  referralUsecase,
	}
}

// GetDashboard GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardUsecase.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}

// GetReferrals GET /api/v1/referrals
func (h *DashboardHandler) GetReferrals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.referralUsecase.GetSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// GetAdminOverview GET /api/v1/admin/overview
func (h *DashboardHandler) GetAdminOverview(c *gin.Context) {
	overview, err := h.dashboardUsecase.GetAdminOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, overview)
}
