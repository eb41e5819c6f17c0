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

type walletService interface {
	ListActive(ctx context.Context, kind entities.WalletKind) ([]*entities.Wallet, error)
	List(ctx context.Context, kind entities.WalletKind) ([]*entities.Wallet, error)
	Create(ctx context.Context, actorID uuid.UUID, input *entities.WalletInput) (*entities.Wallet, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input *entities.WalletInput) (*entities.Wallet, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	Toggle(ctx context.Context, actorID, id uuid.UUID) (*entities.Wallet, error)
}

// WalletHandler handles platform wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase walletService) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

func kindQuery(c *gin.Context) (entities.WalletKind, bool) {
	kind := entities.WalletKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		response.Error(c, domainerrors.BadRequest("kind must be deposit or withdrawal"))
		return "", false
	}
	return kind, true
}

// ListWallets returns the active wallets of a kind
// GET /api/v1/wallets?kind=deposit
func (h *WalletHandler) ListWallets(c *gin.Context) {
	kind, ok := kindQuery(c)
	if !ok {
		return
	}

	wallets, err := h.walletUsecase.ListActive(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": wallets})
}

// AdminListWallets returns every wallet, inactive included
// GET /api/v1/admin/wallets
func (h *WalletHandler) AdminListWallets(c *gin.Context) {
	kind, ok := kindQuery(c)
	if !ok {
		return
	}

	wallets, err := h.walletUsecase.List(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": wallets})
}

// CreateWallet POST /api/v1/admin/wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	var input entities.WalletInput
	if !bindJSON(c, &input) {
		return
	}

	wallet, err := h.walletUsecase.Create(c.Request.Context(), actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, wallet)
}

// UpdateWallet PUT /api/v1/admin/wallets/:id
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input entities.WalletInput
	if !bindJSON(c, &input) {
		return
	}

	wallet, err := h.walletUsecase.Update(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, wallet)
}

// DeleteWallet DELETE /api/v1/admin/wallets/:id
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.walletUsecase.Delete(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Wallet deleted"})
}

// ToggleWallet POST /api/v1/admin/wallets/:id/toggle
func (h *WalletHandler) ToggleWallet(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	wallet, err := h.walletUsecase.Toggle(c.Request.Context(), actorID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, wallet)
}
