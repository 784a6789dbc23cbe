// README: Pallets handler for POST /v1/pallets.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logit/internal/modules/pallets"
)

type palletsRequest struct {
	WeightKg float64      `json:"weight_kg"`
	Pallets  pallets.Info `json:"pallets"`
}

func SummarizePallets(c *gin.Context) {
	var req palletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sum, err := pallets.Summarize(req.WeightKg, req.Pallets)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sum)
}
