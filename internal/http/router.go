// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/http/handlers"
	"taxi/internal/http/middleware"
	"taxi/internal/modules/matching"
	"taxi/internal/modules/pricing"
)

// RoutePreviewer is re-exported so callers need not import handlers.
type RoutePreviewer = handlers.RoutePreviewer

type RouterDeps struct {
	Pricing  *pricing.Service
	Matching *matching.Service
	// Routes may be nil when no Maps key is configured.
	Routes RoutePreviewer
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	fareHandler := handlers.NewFareHandler(deps.Pricing)
	api.POST("/fares/estimate", fareHandler.Estimate)
	api.POST("/fares/estimate/all", fareHandler.EstimateAll)
	api.GET("/fares/quotes/:id", fareHandler.GetQuote)
	api.GET("/rides/tiers", fareHandler.Tiers)

	driverHandler := handlers.NewDriverHandler(deps.Matching)
	api.GET("/drivers/nearby", driverHandler.Nearby)
	api.GET("/drivers/nearest", driverHandler.Nearest)
	api.PUT("/drivers/:id", driverHandler.Upsert)
	api.GET("/drivers/:id", driverHandler.Get)
	api.DELETE("/drivers/:id", driverHandler.Remove)
	api.PUT("/drivers/:id/status", driverHandler.SetStatus)

	locationHandler := handlers.NewLocationHandler(deps.Matching)
	api.PUT("/drivers/:id/location", locationHandler.Update)

	routeHandler := handlers.NewRouteHandler(deps.Routes)
	api.GET("/routes/preview", routeHandler.Preview)

	return r
}
