// README: Pure geographic helpers: haversine distance, trip duration, geohash cells, bounding boxes.
package location

import (
	"math"

	"github.com/mmcloughlin/geohash"

	"taxi/internal/types"
)

const earthRadiusKm = 6371.0

const (
	// minTripMinutes is the floor applied to every duration estimate.
	minTripMinutes = 5.0
	// minutesPerKm is the flat travel-time heuristic.
	minutesPerKm = 2.0
	// CellPrecision is the geohash length used to tag stored points (~150 m cells).
	CellPrecision = 7
)

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees. Identical points yield exactly 0.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// EstimateDurationMinutes is max(5, distanceKm*2).
func EstimateDurationMinutes(distanceKm float64) float64 {
	return math.Max(minTripMinutes, distanceKm*minutesPerKm)
}

// Cell returns the geohash cell of p at CellPrecision.
func Cell(p types.Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, CellPrecision)
}

// Box is a latitude/longitude rectangle in decimal degrees.
type Box struct {
	MinLat, MinLng, MaxLat, MaxLng float64
}

// BoundingBox returns a rectangle containing every point within radiusKm of
// center, padded by 1%. ok is false when the circle touches a pole or crosses
// the antimeridian; callers must then fall back to a full scan.
func BoundingBox(center types.Point, radiusKm float64) (box Box, ok bool) {
	ang := radiusKm / earthRadiusKm * 1.01
	dLat := radiansToDegrees(ang)
	box.MinLat, box.MaxLat = center.Lat-dLat, center.Lat+dLat
	if box.MinLat < -90 || box.MaxLat > 90 {
		return Box{}, false
	}
	ratio := math.Sin(ang) / math.Cos(degreesToRadians(center.Lat))
	if ratio >= 1 {
		return Box{}, false
	}
	dLng := radiansToDegrees(math.Asin(ratio))
	box.MinLng, box.MaxLng = center.Lng-dLng, center.Lng+dLng
	if box.MinLng < -180 || box.MaxLng > 180 {
		return Box{}, false
	}
	return box, true
}

func (b Box) Contains(p types.Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// SortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function. Equal
// distances keep their original order.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
