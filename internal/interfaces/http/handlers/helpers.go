package handlers

import (
	"net/http"
	"strconv"

	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/interfaces/http/middleware"
	"fxvault.backend/internal/interfaces/http/response"
	"fxvault.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireUser returns the authenticated caller or writes a 401.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id route parameter or writes a 400.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid ID format"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body or writes a 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return false
	}
	return true
}

func pageQuery(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.DefaultPageSize)))
	return utils.GetPaginationParams(page, limit)
}

func paginated(c *gin.Context, items interface{}, total int64, p utils.PaginationParams) {
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  utils.CalculateMeta(total, p.Page, p.Limit),
	})
}
