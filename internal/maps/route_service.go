package maps

import (
	"context"
	"errors"
	"fmt"
	"math"

	"googlemaps.github.io/maps"

	"taxi/internal/modules/location"
	"taxi/internal/types"
)

var ErrNoRoute = errors.New("no route found")

type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// RouteService asks Google Maps for a driving route. The result is shown next
// to a fare estimate; fares are always priced on the straight-line distance.
type RouteService struct {
	client directionsClient
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

type RoutePreview struct {
	Summary             string  `json:"summary"`
	RoadDistanceKm      float64 `json:"road_distance_km"`
	RoadDistanceText    string  `json:"road_distance_text"`
	RoadDurationMinutes int     `json:"road_duration_minutes"`
	StraightLineKm      float64 `json:"straight_line_km"`
}

func (s *RouteService) Preview(ctx context.Context, pickup, dropoff types.Point) (RoutePreview, error) {
	if err := pickup.Validate(); err != nil {
		return RoutePreview{}, fmt.Errorf("pickup: %w", err)
	}
	if err := dropoff.Validate(); err != nil {
		return RoutePreview{}, fmt.Errorf("dropoff: %w", err)
	}

	r := &maps.DirectionsRequest{
		Origin:      pickup.String(),
		Destination: dropoff.String(),
		Mode:        maps.TravelModeDriving,
		Region:      "aw",
	}
	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RoutePreview{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return RoutePreview{}, ErrNoRoute
	}
	return previewFromRoute(routes[0], location.HaversineKm(pickup, dropoff))
}

// previewFromRoute sums every leg of route.
func previewFromRoute(route maps.Route, straightKm float64) (RoutePreview, error) {
	if len(route.Legs) == 0 {
		return RoutePreview{}, ErrNoRoute
	}
	var meters int
	var minutes float64
	for _, leg := range route.Legs {
		meters += leg.Distance.Meters
		minutes += leg.Duration.Minutes()
	}
	p := RoutePreview{
		Summary:             route.Summary,
		RoadDistanceKm:      math.Round(float64(meters)/10) / 100,
		RoadDurationMinutes: int(math.Floor(minutes + 0.5)),
		StraightLineKm:      math.Floor(straightKm*100+0.5) / 100,
	}
	if len(route.Legs) == 1 {
		p.RoadDistanceText = route.Legs[0].Distance.HumanReadable
	} else {
		p.RoadDistanceText = fmt.Sprintf("%.1f km", float64(meters)/1000)
	}
	return p, nil
}
