// README: Quote handler for POST /v1/predict.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logit/internal/http/middleware"
	"logit/internal/modules/quote"
)

type QuoteHandler struct {
	quote *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quote: svc}
}

func (h *QuoteHandler) Predict(c *gin.Context) {
	var req quote.FreightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, err := h.quote.Quote(c.Request.Context(), middleware.CallerClientID(c), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toQuoteDTO(q))
}
