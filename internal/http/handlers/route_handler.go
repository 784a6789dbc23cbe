// README: Route handlers: route features, place suggestions and raw routes.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"logit/internal/maps"
	"logit/internal/modules/route"
)

// RouteFeatures is implemented by route.Service.
type RouteFeatures interface {
	Features(ctx context.Context, origin, destination string) (route.Features, error)
	Route(ctx context.Context, origin, destination string) (maps.Route, error)
}

type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// RouteHandler answers 503 when no maps API key is configured.
type RouteHandler struct {
	routes    RouteFeatures
	suggester Suggester
}

func NewRouteHandler(routes RouteFeatures, suggester Suggester) *RouteHandler {
	return &RouteHandler{routes: routes, suggester: suggester}
}

type routeFeaturesResponse struct {
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	DistanceKm      float64  `json:"distance_km"`
	DurationMin     float64  `json:"duration_min"`
	SalikGates      int      `json:"salik_gates"`
	SalikChargesAED float64  `json:"salik_charges_aed"`
	TollGateIDs     []string `json:"toll_gate_ids"`
	Polyline        string   `json:"polyline"`
}

func (h *RouteHandler) Features(c *gin.Context) {
	if h.routes == nil {
		writeError(c, http.StatusServiceUnavailable, "routing not configured")
		return
	}
	f, err := h.routes.Features(c.Request.Context(), c.Query("origin"), c.Query("destination"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, routeFeaturesResponse{
		Origin:          f.Origin,
		Destination:     f.Destination,
		DistanceKm:      f.DistanceKm,
		DurationMin:     f.DurationMin,
		SalikGates:      f.TollGates,
		SalikChargesAED: num(f.TollChargesAED),
		TollGateIDs:     f.TollGateIDs,
		Polyline:        f.Polyline,
	})
}

func (h *RouteHandler) Suggest(c *gin.Context) {
	if h.suggester == nil {
		writeError(c, http.StatusServiceUnavailable, "routing not configured")
		return
	}
	s, err := h.suggester.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": s})
}

type routeLegResponse struct {
	DistanceKm       float64 `json:"distance_km"`
	DurationMin      float64 `json:"duration_min"`
	GeometryPolyline string  `json:"geometry_polyline"`
}

type routeResponse struct {
	Legs        []routeLegResponse `json:"legs"`
	DistanceKm  float64            `json:"distance_km"`
	DurationMin float64            `json:"duration_min"`
	Polyline    string             `json:"polyline"`
}

func (h *RouteHandler) Route(c *gin.Context) {
	if h.routes == nil {
		writeError(c, http.StatusServiceUnavailable, "routing not configured")
		return
	}
	r, err := h.routes.Route(c.Request.Context(), c.Query("origin"), c.Query("destination"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	resp := routeResponse{
		Legs:        make([]routeLegResponse, 0, len(r.Legs)),
		DistanceKm:  float64(r.DistanceMeters) / 1000,
		DurationMin: r.Duration.Minutes(),
		Polyline:    r.Polyline,
	}
	for _, leg := range r.Legs {
		resp.Legs = append(resp.Legs, routeLegResponse{
			DistanceKm:       float64(leg.DistanceMeters) / 1000,
			DurationMin:      leg.Duration.Minutes(),
			GeometryPolyline: leg.Polyline,
		})
	}
	writeJSON(c, http.StatusOK, resp)
}
