// README: Nearby-driver filter: availability, vehicle-tier compatibility and radius.
package matching

import (
	"fmt"

	"taxi/internal/modules/location"
	"taxi/internal/types"
)

// FilterNearbyDrivers keeps the candidates that are online, available,
// compatible with tier and within SearchRadiusKm of rider. Input order is
// preserved. A malformed candidate fails the whole call.
func FilterNearbyDrivers(rider types.Point, tier types.RideTier, candidates []DriverCandidate) ([]DriverCandidate, error) {
	if err := rider.Validate(); err != nil {
		return nil, fmt.Errorf("rider: %w", err)
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown ride tier %q", types.ErrInvalidArgument, tier)
	}

	out := make([]DriverCandidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsOnline || !c.IsAvailable {
			continue
		}
		if !tierCompatible(tier, c.VehicleTier) {
			continue
		}
		if !withinRadius(location.HaversineKm(rider, c.CurrentLocation)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// tierCompatible: xl never rides in a sedan, premium needs a luxury car or a
// sedan, standard and express take anything.
func tierCompatible(tier types.RideTier, vehicle VehicleTier) bool {
	switch tier {
	case types.RideTierXL:
		return vehicle != VehicleSedan
	case types.RideTierPremium:
		return vehicle == VehicleLuxury || vehicle == VehicleSedan
	default:
		return true
	}
}

func withinRadius(distanceKm float64) bool {
	return distanceKm <= SearchRadiusKm
}
