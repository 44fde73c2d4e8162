// README: Driver handlers: snapshot upsert, status, removal, nearby and nearest lookups.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/matching"
	"taxi/internal/types"
)

type DriverHandler struct {
	matching *matching.Service
}

func NewDriverHandler(svc *matching.Service) *DriverHandler {
	return &DriverHandler{matching: svc}
}

type driverRequest struct {
	IsOnline        bool         `json:"is_online"`
	IsAvailable     bool         `json:"is_available"`
	VehicleTier     string       `json:"vehicle_tier"`
	CurrentLocation *types.Point `json:"current_location" binding:"required"`
}

func (h *DriverHandler) Upsert(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req driverRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.matching.UpdateDriver(c.Request.Context(), matching.DriverCandidate{
		ID:              id,
		IsOnline:        req.IsOnline,
		IsAvailable:     req.IsAvailable,
		VehicleTier:     matching.VehicleTier(req.VehicleTier),
		CurrentLocation: *req.CurrentLocation,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

type statusRequest struct {
	IsOnline    *bool `json:"is_online"`
	IsAvailable *bool `json:"is_available"`
}

func (h *DriverHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.IsOnline == nil && req.IsAvailable == nil {
		writeError(c, http.StatusBadRequest, "is_online or is_available is required")
		return
	}
	d, err := h.matching.SetStatus(c.Request.Context(), id, matching.StatusUpdate{
		IsOnline:    req.IsOnline,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *DriverHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.matching.RemoveDriver(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.matching.GetDriver(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func riderQuery(c *gin.Context) (types.Point, types.RideTier, error) {
	p, err := queryPoint(c, "lat", "lng")
	if err != nil {
		return types.Point{}, "", fmt.Errorf("rider: %w", err)
	}
	tier, err := types.ParseRideTier(c.Query("ride_tier"))
	if err != nil {
		return types.Point{}, "", err
	}
	return p, tier, nil
}

func (h *DriverHandler) Nearby(c *gin.Context) {
	rider, tier, err := riderQuery(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	drivers, err := h.matching.NearbyDrivers(c.Request.Context(), rider, tier)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"drivers":   matching.WithDistances(rider, drivers),
		"count":     len(drivers),
		"radius_km": matching.SearchRadiusKm,
	})
}

func (h *DriverHandler) Nearest(c *gin.Context) {
	rider, tier, err := riderQuery(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	d, err := h.matching.NearestDriver(c.Request.Context(), rider, tier)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}
