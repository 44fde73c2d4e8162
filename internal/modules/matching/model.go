// README: Driver candidates, vehicle tiers and the fixed search radius.
package matching

import (
	"errors"
	"fmt"

	"taxi/internal/types"
)

type VehicleTier string

const (
	VehicleSedan  VehicleTier = "sedan"
	VehicleSUV    VehicleTier = "suv"
	VehicleLuxury VehicleTier = "luxury"
)

func (v VehicleTier) Valid() bool {
	switch v {
	case VehicleSedan, VehicleSUV, VehicleLuxury:
		return true
	}
	return false
}

// SearchRadiusKm is the fixed pickup radius. It is not configurable.
const SearchRadiusKm = 10.0

var (
	ErrDriverNotFound    = errors.New("driver not found")
	ErrNoDriverAvailable = errors.New("no available drivers nearby")
)

// DriverCandidate is a point-in-time snapshot of a driver supplied by the
// caller or a registry.
type DriverCandidate struct {
	ID              types.ID    `json:"id"`
	IsOnline        bool        `json:"is_online"`
	IsAvailable     bool        `json:"is_available"`
	VehicleTier     VehicleTier `json:"vehicle_tier"`
	CurrentLocation types.Point `json:"current_location"`
}

func (d DriverCandidate) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: driver id is empty", types.ErrInvalidArgument)
	}
	if !d.VehicleTier.Valid() {
		return fmt.Errorf("%w: driver %s has unknown vehicle tier %q", types.ErrInvalidArgument, d.ID, d.VehicleTier)
	}
	if err := d.CurrentLocation.Validate(); err != nil {
		return fmt.Errorf("driver %s: %w", d.ID, err)
	}
	return nil
}

// NearbyDriver pairs a candidate with its distance from the rider.
type NearbyDriver struct {
	DriverCandidate
	DistanceKm float64 `json:"distance_km"`
}

// StatusUpdate changes only the flags that are set.
type StatusUpdate struct {
	IsOnline    *bool
	IsAvailable *bool
}
