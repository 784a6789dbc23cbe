// README: Client API key middleware (x-client-id / x-api-key headers).
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"logit/internal/modules/clients"
)

const (
	HeaderClientID = "x-client-id"
	HeaderAPIKey   = "x-api-key"

	ctxClientID = "client_id"
)

// Authenticator checks a client's API key.
type Authenticator interface {
	Authenticate(ctx context.Context, clientID, apiKey string) error
}

// Auth rejects requests whose x-api-key does not belong to x-client-id and
// stores the authenticated client id for handlers.
func Auth(authn Authenticator, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		// The trimmed id is both authenticated and handed to handlers.
		clientID := strings.TrimSpace(c.GetHeader(HeaderClientID))
		err := authn.Authenticate(c.Request.Context(), clientID, c.GetHeader(HeaderAPIKey))
		switch {
		case err == nil:
			c.Set(ctxClientID, clientID)
			c.Next()
		case errors.Is(err, clients.ErrUnknownClient), errors.Is(err, clients.ErrInvalidKey):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			logger.Error("authentication lookup failed", zap.String("client_id", clientID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "authentication unavailable"})
		}
	}
}

// CallerClientID returns the client id set by Auth, or "" on public routes.
func CallerClientID(c *gin.Context) string {
	return c.GetString(ctxClientID)
}
