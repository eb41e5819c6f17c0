package handlers

import (
	"context"
	"net/http"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type settingsService interface {
	Get(ctx context.Context) (*entities.Settings, error)
	GetPublic(ctx context.Context) (*entities.PublicSettings, error)
	Update(ctx context.Context, actorID uuid.UUID, input *entities.Settings) (*entities.Settings, error)
}

type contactService interface {
	Submit(ctx context.Context, input *entities.ContactInput, ipAddress string) (*entities.ContactMessage, error)
	List(ctx context.Context, page, limit int) ([]*entities.ContactMessage, int64, error)
}

// SettingsHandler serves platform settings and the contact form
type SettingsHandler struct {
	settingsUsecase settingsService
	contactUsecase  contactService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsUsecase settingsService, contactUsecase contactService) *SettingsHandler {
	return &SettingsHandler{
		settingsUsecase: settingsUsecase,
		contactUsecase:  contactUsecase,
	}
}

// GetPublicSettings GET /api/v1/settings/public
func (h *SettingsHandler) GetPublicSettings(c *gin.Context) {
	settings, err := h.settingsUsecase.GetPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// GetSettings GET /api/v1/admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsUsecase.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// UpdateSettings PUT /api/v1/admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.Settings
	if !bindJSON(c, &input) {
		return
	}

	settings, err := h.settingsUsecase.Update(c.Request.Context(), actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, settings)
}

// SubmitContact POST /api/v1/contact
func (h *SettingsHandler) SubmitContact(c *gin.Context) {
	var input entities.ContactInput
	if !bindJSON(c, &input) {
		return
	}

	msg, err := h.contactUsecase.Submit(c.Request.Context(), &input, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": msg.ID, "message": "Message received"})
}

// ListContactMessages GET /api/v1/admin/contact-messages
func (h *SettingsHandler) ListContactMessages(c *gin.Context) {
	p := pageQuery(c)

	items, total, err := h.contactUsecase.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	paginated(c, items, total, p)
}
