// README: Location handler: moves a registered driver.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/matching"
	"taxi/internal/types"
)

type LocationHandler struct {
	matching *matching.Service
}

func NewLocationHandler(svc *matching.Service) *LocationHandler {
	return &LocationHandler{matching: svc}
}

type locationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req locationRequest
	if !bindJSON(c, &req) {
		return
	}
	p := types.Point{Lat: *req.Lat, Lng: *req.Lng}
	d, err := h.matching.UpdateLocation(c.Request.Context(), id, p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}
