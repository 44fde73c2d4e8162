// README: Pricing rate definition for each ride tier and the fare estimate shape.
package pricing

import (
	"time"

	"taxi/internal/types"
)

// Currency is the single currency every fare is quoted in.
const Currency = "AWG"

type Rate struct {
	RideTier types.RideTier `json:"ride_tier"`
	BaseFare float64        `json:"base_fare"`
	PerKm    float64        `json:"per_km"`
	PerMin   float64        `json:"per_min"`
}

var rates = map[types.RideTier]Rate{
	types.RideTierStandard: {RideTier: types.RideTierStandard, BaseFare: 5, PerKm: 2.5, PerMin: 0.5},
	types.RideTierPremium:  {RideTier: types.RideTierPremium, BaseFare: 8, PerKm: 3.5, PerMin: 0.7},
	types.RideTierXL:       {RideTier: types.RideTierXL, BaseFare: 10, PerKm: 4.0, PerMin: 0.8},
	types.RideTierExpress:  {RideTier: types.RideTierExpress, BaseFare: 7, PerKm: 3.0, PerMin: 0.6},
}

// FareEstimate is derived per request and never authoritative. Component
// fares are unrounded; only TotalFare and EstimatedDistanceKm carry two
// decimals.
type FareEstimate struct {
	RideTier                 types.RideTier `json:"ride_tier"`
	BaseFare                 float64        `json:"base_fare"`
	DistanceFare             float64        `json:"distance_fare"`
	TimeFare                 float64        `json:"time_fare"`
	TotalFare                float64        `json:"total_fare"`
	Currency                 string         `json:"currency"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
	EstimatedDistanceKm      float64        `json:"estimated_distance_km"`
}

type QuoteRequest struct {
	Pickup   types.Point
	Dropoff  types.Point
	RideTier types.RideTier
}

// Quote is an estimate tagged for later lookup.
type Quote struct {
	ID          types.ID     `json:"quote_id"`
	Estimate    FareEstimate `json:"estimate"`
	Pickup      types.Point  `json:"pickup"`
	Dropoff     types.Point  `json:"dropoff"`
	PickupCell  string       `json:"pickup_cell"`
	DropoffCell string       `json:"dropoff_cell"`
	CreatedAt   time.Time    `json:"created_at"`
}
