package middleware

import (
	"context"
	"errors"
	"strings"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/interfaces/http/response"
	"fxvault.backend/pkg/jwt"
	"fxvault.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookieName carries the server side session id
	SessionCookieName = "session_id"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
)

// Authenticator resolves session cookies and loads the account behind a token.
type Authenticator interface {
	ResolveSession(ctx context.Context, sessionID string) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// AuthMiddleware accepts a bearer access token or a session cookie. The account is
// reloaded on every request so bans and role changes apply immediately.
func AuthMiddleware(jwtService *jwt.JWTService, auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := bearerToken(c)
		if err != nil {
			response.Abort(c, domainerrors.Unauthorized(err.Error()))
			return
		}
		if token == "" && auth != nil {
			if sessionID, cookieErr := c.Cookie(SessionCookieName); cookieErr == nil && sessionID != "" {
				if resolved, resolveErr := auth.ResolveSession(ctx, sessionID); resolveErr == nil {
					token = resolved
				}
			}
		}
		if token == "" {
			response.Abort(c, domainerrors.Unauthorized("authentication required"))
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			logger.Debug(ctx, "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Abort(c, domainerrors.Unauthorized("token has expired"))
				return
			}
			response.Abort(c, domainerrors.Unauthorized("invalid token"))
			return
		}

		role := claims.Role
		if auth != nil {
			user, err := auth.GetUserByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					response.Abort(c, domainerrors.Unauthorized("account no longer exists"))
					return
				}
				response.Abort(c, err)
				return
			}
			if user.IsBanned {
				response.Abort(c, domainerrors.ErrAccountBanned)
				return
			}
			role = string(user.Role)
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, role)
		c.Request = c.Request.WithContext(context.WithValue(ctx, logger.UserIDKey, claims.UserID.String()))

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return "", nil
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", errors.New("invalid authorization format, use: Bearer <token>")
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)), nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	return c.GetString(UserRoleKey), c.GetString(UserRoleKey) != ""
}

// IsAdmin reports whether the authenticated caller is an admin.
func IsAdmin(c *gin.Context) bool {
	role, _ := GetUserRole(c)
	return role == string(entities.UserRoleAdmin)
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			response.Abort(c, domainerrors.Unauthorized("user role not found"))
			return
		}
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}
		response.Abort(c, domainerrors.Forbidden("insufficient permissions"))
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(entities.UserRoleAdmin))
}
