// README: Toll handlers: match an explicit path and describe the active catalog.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit/internal/modules/tolls"
	"logit/internal/types"
)

type TollsHandler struct {
	tolls *tolls.Service
}

func NewTollsHandler(svc *tolls.Service) *TollsHandler {
	return &TollsHandler{tolls: svc}
}

// matchRequest carries the path as GeoJSON-ordered [lon, lat] pairs.
type matchRequest struct {
	Path    [][2]float64 `json:"path"`
	RadiusM float64      `json:"radius_m"`
}

type matchResponse struct {
	MatchedGateCount int      `json:"matched_gate_count"`
	TotalFeeAED      float64  `json:"total_fee_aed"`
	GateIDs          []string `json:"gate_ids"`
	RadiusM          float64  `json:"radius_m"`
}

func (h *TollsHandler) Match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	path := make(tolls.RoutePath, 0, len(req.Path))
	for i, pair := range req.Path {
		p := types.Point{Lng: pair[0], Lat: pair[1]}
		if !p.Valid() {
			writeDomainError(c, types.NewValidationError(fmt.Sprintf("path[%d]", i), "coordinate out of range"))
			return
		}
		path = append(path, p)
	}
	if req.RadiusM < 0 {
		writeDomainError(c, types.NewValidationError("radius_m", "must not be negative"))
		return
	}

	radius := req.RadiusM
	if radius == 0 {
		radius = h.tolls.RadiusMeters()
	}
	res := tolls.Match(path, h.tolls.Catalog(), radius)
	writeJSON(c, http.StatusOK, matchResponse{
		MatchedGateCount: res.MatchedGateCount,
		TotalFeeAED:      num(res.TotalFee),
		GateIDs:          res.GateIDs,
		RadiusM:          radius,
	})
}

func (h *TollsHandler) Catalog(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"gates":    h.tolls.Catalog().Len(),
		"radius_m": h.tolls.RadiusMeters(),
	})
}
