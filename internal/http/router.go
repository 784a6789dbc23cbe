// README: HTTP route registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logit/internal/http/handlers"
	"logit/internal/http/middleware"
)

func registerRoutes(r *gin.Engine, deps ServerDeps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "freight-rate-api", "version": deps.Version})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.Auth(deps.Auth, deps.Logger)
	v1 := r.Group("/v1")

	quoteHandler := handlers.NewQuoteHandler(deps.Quote)
	v1.POST("/predict", auth, quoteHandler.Predict)

	rulesHandler := handlers.NewRulesHandler(deps.Pricing, deps.RulesCache)
	v1.GET("/rules", auth, rulesHandler.Get)
	v1.DELETE("/rules/cache", auth, rulesHandler.InvalidateCache)

	routeHandler := handlers.NewRouteHandler(deps.Routes, deps.Suggester)
	v1.GET("/route_features", auth, routeHandler.Features)
	v1.GET("/geo/suggest", routeHandler.Suggest)
	v1.GET("/geo/route", routeHandler.Route)

	tollsHandler := handlers.NewTollsHandler(deps.Tolls)
	v1.POST("/tolls/match", auth, tollsHandler.Match)
	v1.GET("/tolls/catalog", tollsHandler.Catalog)

	v1.POST("/pallets", handlers.SummarizePallets)
}
