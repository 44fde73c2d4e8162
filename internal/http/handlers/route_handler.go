// README: Route preview handler; informational only, fares never use the road distance.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/maps"
	"taxi/internal/types"
)

// RoutePreviewer is satisfied by *maps.RouteService.
type RoutePreviewer interface {
	Preview(ctx context.Context, pickup, dropoff types.Point) (maps.RoutePreview, error)
}

type RouteHandler struct {
	routes RoutePreviewer
}

// NewRouteHandler accepts a nil previewer; requests then get 503.
func NewRouteHandler(routes RoutePreviewer) *RouteHandler {
	return &RouteHandler{routes: routes}
}

func (h *RouteHandler) Preview(c *gin.Context) {
	if h.routes == nil {
		writeError(c, http.StatusServiceUnavailable, "route preview not configured")
		return
	}
	pickup, err := queryPoint(c, "pickup_lat", "pickup_lng")
	if err != nil {
		writeServiceError(c, fmt.Errorf("pickup: %w", err))
		return
	}
	dropoff, err := queryPoint(c, "dropoff_lat", "dropoff_lng")
	if err != nil {
		writeServiceError(c, fmt.Errorf("dropoff: %w", err))
		return
	}
	p, err := h.routes.Preview(c.Request.Context(), pickup, dropoff)
	if errors.Is(err, maps.ErrNoRoute) {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}
