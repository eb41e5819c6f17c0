package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/infrastructure/storage"
	"fxvault.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 64 << 10

type fileStore interface {
	MaxBytes() int64
	Save(ctx context.Context, r io.Reader) (*storage.StoredFile, error)
	Open(name string) (io.ReadSeekCloser, string, error)
}

// UploadHandler stores proof and KYC documents
type UploadHandler struct {
	store fileStore
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store fileStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts a multipart "file" field
// POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.store.MaxBytes()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("file is required"))
		return
	}
	if header.Size > h.store.MaxBytes() {
		response.Error(c, domainerrors.NewError(fmt.Sprintf("file exceeds %d bytes", h.store.MaxBytes()), domainerrors.ErrInvalidInput))
		return
	}

	f, err := header.Open()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("failed to read file"))
		return
	}
	defer f.Close()

	stored, err := h.store.Save(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, stored)
}

// Serve streams a stored upload
// GET /api/v1/uploads/:name
func (h *UploadHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	f, contentType, err := h.store.Open(name)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", contentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "private, max-age=86400")
	http.ServeContent(c.Writer, c.Request, name, time.Time{}, f)
}
