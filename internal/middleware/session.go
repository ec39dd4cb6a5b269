package middleware

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/session"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
	"github.com/molisezx/luct-reporting/pkg/response"
)

// ContextUserKey is the gin context key storing the caller snapshot.
const ContextUserKey = "currentUser"

type userVerifier interface {
	FindInfoByID(ctx context.Context, id string) (*models.UserInfo, error)
}

// SessionAuth protects routes by requiring a live session token.
//
// The token is read from the Authorization header (a bare token or a
// Bearer-prefixed one) or from Session-Id; the two headers are synonyms.
// A missing token yields 401; an unknown token, or a token whose user no
// longer exists, yields 403. In the latter case the stale token is purged
// from the registry so a retry with the same token also fails.
func SessionAuth(registry session.Registry, users userVerifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		snapshot, err := registry.Lookup(c.Request.Context(), token)
		if err != nil {
			logger.Error("session lookup failed", zap.Error(err))
			response.Error(c, appErrors.ErrInternal)
			c.Abort()
			return
		}
		if snapshot == nil {
			response.Error(c, appErrors.ErrInvalidSession)
			c.Abort()
			return
		}

		// The registry snapshot may outlive the account; re-validate
		// against the credential store before trusting it.
		if _, err := users.FindInfoByID(c.Request.Context(), snapshot.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if invErr := registry.Invalidate(c.Request.Context(), token); invErr != nil {
					logger.Warn("failed to purge stale session", zap.Error(invErr))
				}
				response.Error(c, appErrors.Clone(appErrors.ErrInvalidSession, "user no longer exists"))
				c.Abort()
				return
			}
			logger.Error("session user re-validation failed", zap.Error(err))
			response.Error(c, appErrors.ErrInternal)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, snapshot)
		c.Next()
	}
}

// TokenFromRequest extracts the raw session token from either accepted
// header, stripping an optional Bearer prefix.
func TokenFromRequest(c *gin.Context) string {
	return tokenFromRequest(c)
}

func tokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.GetHeader("Session-Id")
	}
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}
