package handlers

import (
	"context"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type adminUserService interface {
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
	Detail(ctx context.Context, id uuid.UUID) (*entities.UserDetail, error)
	AdjustBalance(ctx context.Context, actorID, id uuid.UUID, input *entities.AdjustBalanceInput) (*entities.User, error)
	ToggleBan(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)
	ToggleRole(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)
	ResetPassword(ctx context.Context, actorID, id uuid.UUID, input *entities.ResetPasswordInput) error
	ListAuditLogs(ctx context.Context, page, limit int) ([]*entities.AuditLog, int64, error)
}

// AdminUserHandler handles back office user management
type AdminUserHandler struct {
	adminUsecase adminUserService
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(adminUsecase adminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminUsecase: adminUsecase}
}

// ListUsers GET /api/v1/admin/users?search=&page=&limit=
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	p := pageQuery(c)

	users, total, err := h.adminUsecase.List(c.Request.Context(), entities.UserFilter{
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, users, total, p)
}

// GetUser GET /api/v1/admin/users/:id
func (h *AdminUserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.adminUsecase.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// AdjustBalance POST /api/v1/admin/users/:id/balance
func (h *AdminUserHandler) AdjustBalance(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.AdjustBalanceInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.adminUsecase.AdjustBalance(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// ToggleBan POST /api/v1/admin/users/:id/ban
func (h *AdminUserHandler) ToggleBan(c *gin.Context) {
	h.toggle(c, h.adminUsecase.ToggleBan)
}

// ToggleRole POST /api/v1/admin/users/:id/role
func (h *AdminUserHandler) ToggleRole(c *gin.Context) {
	h.toggle(c, h.adminUsecase.ToggleRole)
}

func (h *AdminUserHandler) toggle(c *gin.Context, fn func(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := fn(c.Request.Context(), actorID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// ResetPassword POST /api/v1/admin/users/:id/password
func (h *AdminUserHandler) ResetPassword(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.ResetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.adminUsecase.ResetPassword(c.Request.Context(), actorID, id, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password reset"})
}

// ListAuditLogs GET /api/v1/admin/audit-logs
func (h *AdminUserHandler) ListAuditLogs(c *gin.Context) {
	p := pageQuery(c)

	logs, total, err := h.adminUsecase.ListAuditLogs(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, logs, total, p)
}
