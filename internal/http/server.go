// README: API gateway; builds the gin engine and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"logit/internal/http/handlers"
	"logit/internal/http/middleware"
	"logit/internal/modules/pricing"
	"logit/internal/modules/quote"
	"logit/internal/modules/tolls"
)

// ServerDeps lists what the gateway serves. Routes, Suggester and
// RulesCache may be nil; the endpoints that need them then answer 503 or
// become no-ops.
type ServerDeps struct {
	Auth       middleware.Authenticator
	Quote      *quote.Service
	Pricing    *pricing.Service
	RulesCache handlers.CacheInvalidator
	Tolls      *tolls.Service
	Routes     handlers.RouteFeatures
	Suggester  handlers.Suggester
	Logger     *zap.Logger
	Version    string
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{deps: deps}
}

// Routes returns the HTTP handler with middleware and every route attached.
func (s *Server) Routes() http.Handler {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(s.deps.Logger),
		middleware.Recovery(s.deps.Logger),
		middleware.Metrics(),
	)
	registerRoutes(engine, s.deps)
	return engine
}
