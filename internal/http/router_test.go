package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"taxi/internal/maps"
	"taxi/internal/modules/matching"
	"taxi/internal/modules/pricing"
	"taxi/internal/types"
)

type stubPreviewer struct{}

func (stubPreviewer) Preview(_ context.Context, _, _ types.Point) (maps.RoutePreview, error) {
	return maps.RoutePreview{Summary: "L.G. Smith Blvd", RoadDistanceKm: 2.15, RoadDurationMinutes: 6}, nil
}

func newTestHandler(routes bool) http.Handler {
	gin.SetMode(gin.TestMode)
	deps := RouterDeps{
		Pricing:  pricing.NewService(nil, nil),
		Matching: matching.NewService(matching.NewMemoryRegistry(), nil, nil),
	}
	if routes {
		deps.Routes = stubPreviewer{}
	}
	return NewServer(ServerConfig{Addr: ":0", CORSOrigins: []string{"*"}}, NewRouter(deps)).Handler()
}

func doRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

var (
	oranjestad = map[string]float64{"lat": 12.5092, "lng": -70.0086}
	palmBeach  = map[string]float64{"lat": 12.5150, "lng": -70.0200}
)

func TestHealth(t *testing.T) {
	w := doRequest(newTestHandler(false), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}
}

func TestEstimateFare(t *testing.T) {
	h := newTestHandler(false)
	w := doRequest(h, http.MethodPost, "/api/fares/estimate", map[string]any{
		"pickup": oranjestad, "dropoff": palmBeach, "ride_tier": "standard",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var q pricing.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	e := q.Estimate
	if e.TotalFare != 10.99 || e.Currency != "AWG" || e.EstimatedDurationMinutes != 5 || e.EstimatedDistanceKm != 1.40 {
		t.Errorf("estimate = %+v", e)
	}
	if q.ID == "" || q.PickupCell == "" {
		t.Errorf("quote metadata missing: %+v", q)
	}
}

func TestEstimateFareBadRequests(t *testing.T) {
	h := newTestHandler(false)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown tier", map[string]any{"pickup": oranjestad, "dropoff": palmBeach, "ride_tier": "limo"}},
		{"missing tier", map[string]any{"pickup": oranjestad, "dropoff": palmBeach}},
		{"missing dropoff", map[string]any{"pickup": oranjestad, "ride_tier": "standard"}},
		{"latitude out of range", map[string]any{"pickup": map[string]float64{"lat": 91, "lng": 0}, "dropoff": palmBeach, "ride_tier": "xl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(h, http.MethodPost, "/api/fares/estimate", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestEstimateAllTiers(t *testing.T) {
	w := doRequest(newTestHandler(false), http.MethodPost, "/api/fares/estimate/all", map[string]any{
		"pickup": oranjestad, "dropoff": palmBeach,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Estimates []pricing.FareEstimate `json:"estimates"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	want := []float64{10.99, 16.38, 19.58, 14.19}
	if len(body.Estimates) != len(want) {
		t.Fatalf("got %d estimates", len(body.Estimates))
	}
	for i, e := range body.Estimates {
		if e.RideTier != types.RideTiers[i] || e.TotalFare != want[i] {
			t.Errorf("estimate %d = %s %.2f, want %s %.2f", i, e.RideTier, e.TotalFare, types.RideTiers[i], want[i])
		}
	}
}

func TestQuoteLookupWithoutStore(t *testing.T) {
	w := doRequest(newTestHandler(false), http.MethodGet, "/api/fares/quotes/abc-123", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestTiers(t *testing.T) {
	w := doRequest(newTestHandler(false), http.MethodGet, "/api/rides/tiers", nil)
	var body struct {
		Currency string         `json:"currency"`
		Tiers    []pricing.Rate `json:"tiers"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Currency != "AWG" || len(body.Tiers) != 4 || body.Tiers[2].BaseFare != 10 {
		t.Errorf("tiers = %+v", body)
	}
}

func TestDriverLifecycle(t *testing.T) {
	h := newTestHandler(false)

	w := doRequest(h, http.MethodPut, "/api/drivers/d-1", map[string]any{
		"is_online": true, "is_available": true, "vehicle_tier": "suv",
		"current_location": palmBeach,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(h, http.MethodGet, "/api/drivers/nearby?lat=12.5092&lng=-70.0086&ride_tier=xl", nil)
	var nearby struct {
		Drivers []matching.NearbyDriver `json:"drivers"`
		Count   int                     `json:"count"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &nearby)
	if w.Code != http.StatusOK || nearby.Count != 1 || nearby.Drivers[0].ID != "d-1" {
		t.Fatalf("nearby = %d %s", w.Code, w.Body.String())
	}
	if d := nearby.Drivers[0].DistanceKm; d < 1.39 || d > 1.40 {
		t.Errorf("distance = %v", d)
	}

	// premium does not ride in an suv
	w = doRequest(h, http.MethodGet, "/api/drivers/nearest?lat=12.5092&lng=-70.0086&ride_tier=premium", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("nearest premium: expected 404, got %d", w.Code)
	}

	w = doRequest(h, http.MethodPut, "/api/drivers/d-1/status", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty status: expected 400, got %d", w.Code)
	}
	w = doRequest(h, http.MethodPut, "/api/drivers/d-1/status", map[string]any{"is_available": false})
	if w.Code != http.StatusOK {
		t.Errorf("status: expected 200, got %d", w.Code)
	}
	w = doRequest(h, http.MethodGet, "/api/drivers/nearest?lat=12.5092&lng=-70.0086&ride_tier=standard", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("nearest after going unavailable: expected 404, got %d", w.Code)
	}

	w = doRequest(h, http.MethodPut, "/api/drivers/d-1/location", map[string]any{"lat": 12.5610, "lng": -70.0430})
	if w.Code != http.StatusOK {
		t.Errorf("location: expected 200, got %d", w.Code)
	}

	w = doRequest(h, http.MethodDelete, "/api/drivers/d-1", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	w = doRequest(h, http.MethodGet, "/api/drivers/d-1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestDriverBadRequests(t *testing.T) {
	h := newTestHandler(false)
	tests := []struct {
		name, method, path string
		body               any
	}{
		{"unknown vehicle tier", http.MethodPut, "/api/drivers/d-2", map[string]any{"vehicle_tier": "bus", "current_location": palmBeach}},
		{"missing location", http.MethodPut, "/api/drivers/d-2", map[string]any{"vehicle_tier": "sedan"}},
		{"invalid id", http.MethodPut, "/api/drivers/bad$id", map[string]any{"vehicle_tier": "sedan", "current_location": palmBeach}},
		{"nearby without tier", http.MethodGet, "/api/drivers/nearby?lat=12.5&lng=-70", nil},
		{"nearby bad lat", http.MethodGet, "/api/drivers/nearby?lat=abc&lng=-70&ride_tier=standard", nil},
		{"nearby lat out of range", http.MethodGet, "/api/drivers/nearby?lat=-91&lng=-70&ride_tier=standard", nil},
		{"location missing lng", http.MethodPut, "/api/drivers/d-2/location", map[string]any{"lat": 12.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(h, tt.method, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestRoutePreview(t *testing.T) {
	path := "/api/routes/preview?pickup_lat=12.5092&pickup_lng=-70.0086&dropoff_lat=12.515&dropoff_lng=-70.02"

	w := doRequest(newTestHandler(false), http.MethodGet, path, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("without maps: expected 503, got %d", w.Code)
	}

	h := newTestHandler(true)
	w = doRequest(h, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p maps.RoutePreview
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if p.RoadDurationMinutes != 6 {
		t.Errorf("preview = %+v", p)
	}

	w = doRequest(h, http.MethodGet, "/api/routes/preview?pickup_lat=12.5", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing params: expected 400, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://rider.example.aw")
	w := httptest.NewRecorder()
	newTestHandler(false).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
