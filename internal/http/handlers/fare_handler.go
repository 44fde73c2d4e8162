// README: Fare handlers: single-tier quote, all-tier comparison, quote lookup, rate table.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/pricing"
	"taxi/internal/types"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

type estimateRequest struct {
	Pickup   *types.Point `json:"pickup" binding:"required"`
	Dropoff  *types.Point `json:"dropoff" binding:"required"`
	RideTier string       `json:"ride_tier"`
}

func (h *FareHandler) Estimate(c *gin.Context) {
	var req estimateRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.pricing.Quote(c.Request.Context(), pricing.QuoteRequest{
		Pickup:   *req.Pickup,
		Dropoff:  *req.Dropoff,
		RideTier: types.RideTier(req.RideTier),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}

func (h *FareHandler) EstimateAll(c *gin.Context) {
	var req estimateRequest
	if !bindJSON(c, &req) {
		return
	}
	estimates, err := h.pricing.QuoteAllTiers(c.Request.Context(), *req.Pickup, *req.Dropoff)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"estimates": estimates})
}

func (h *FareHandler) GetQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := h.pricing.GetQuote(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}

func (h *FareHandler) Tiers(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"currency": pricing.Currency, "tiers": pricing.Rates()})
}
