// README: Rules handlers: the caller's effective rules and rule cache eviction.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit/internal/http/middleware"
	"logit/internal/modules/pricing"
)

// CacheInvalidator drops a client's cached rule document.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, clientID string) error
}

type RulesHandler struct {
	pricing *pricing.Service
	cache   CacheInvalidator
}

// NewRulesHandler builds the handler. cache may be nil when rules are not cached.
func NewRulesHandler(svc *pricing.Service, cache CacheInvalidator) *RulesHandler {
	return &RulesHandler{pricing: svc, cache: cache}
}

func (h *RulesHandler) Get(c *gin.Context) {
	clientID := middleware.CallerClientID(c)
	rules, err := h.pricing.RulesForClient(c.Request.Context(), clientID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"client_id": clientID, "rules": toRulesDTO(rules)})
}

func (h *RulesHandler) InvalidateCache(c *gin.Context) {
	if h.cache != nil {
		if err := h.cache.Invalidate(c.Request.Context(), middleware.CallerClientID(c)); err != nil {
			writeDomainError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}
