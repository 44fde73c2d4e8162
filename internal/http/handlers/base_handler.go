// README: Base handler utilities (JSON helpers, error mapping, query parsing).
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxi/internal/modules/matching"
	"taxi/internal/modules/pricing"
	"taxi/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts 1-64 characters of [A-Za-z0-9_-], enough for uuids and
// external driver ids.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError is the single place sentinel errors become status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, matching.ErrDriverNotFound),
		errors.Is(err, matching.ErrNoDriverAvailable),
		errors.Is(err, pricing.ErrQuoteNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrQuotesDisabled):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func pathID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return types.ID(id), true
}

func queryFloat(c *gin.Context, key string) (float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: missing %s", types.ErrInvalidArgument, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", types.ErrInvalidArgument, key)
	}
	return v, nil
}

// queryPoint reads latKey/lngKey and validates the result.
func queryPoint(c *gin.Context, latKey, lngKey string) (types.Point, error) {
	lat, err := queryFloat(c, latKey)
	if err != nil {
		return types.Point{}, err
	}
	lng, err := queryFloat(c, lngKey)
	if err != nil {
		return types.Point{}, err
	}
	p := types.Point{Lat: lat, Lng: lng}
	return p, p.Validate()
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
