// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit/internal/maps"
	"logit/internal/modules/clients"
	"logit/internal/modules/quote"
	"logit/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module errors to status codes. Unknown errors are
// logged through gin and answered with a generic 500.
func writeDomainError(c *gin.Context, err error) {
	var ve *types.ValidationError
	var ce *types.ConfigurationError
	switch {
	case errors.As(err, &ve):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &ce):
		writeError(c, http.StatusUnprocessableEntity, ce.Error())
	case errors.Is(err, clients.ErrUnknownClient), errors.Is(err, clients.ErrInvalidKey):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, quote.ErrPredictorUnavailable), errors.Is(err, quote.ErrInvalidPrediction):
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, quote.ErrNotConfigured):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, maps.ErrNoRoute):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
