// README: Pure fare calculation: haversine distance, floored duration, tiered rates.
package pricing

import (
	"fmt"
	"math"

	"taxi/internal/modules/location"
	"taxi/internal/types"
)

// RateFor returns the fixed rate triple for tier.
func RateFor(tier types.RideTier) (Rate, error) {
	r, ok := rates[tier]
	if !ok {
		return Rate{}, fmt.Errorf("%w: unknown ride tier %q", types.ErrInvalidArgument, tier)
	}
	return r, nil
}

// Rates returns the rate table in display order.
func Rates() []Rate {
	out := make([]Rate, 0, len(types.RideTiers))
	for _, t := range types.RideTiers {
		out = append(out, rates[t])
	}
	return out
}

// EstimateFare prices a trip from pickup to dropoff for tier.
func EstimateFare(pickup, dropoff types.Point, tier types.RideTier) (FareEstimate, error) {
	if err := pickup.Validate(); err != nil {
		return FareEstimate{}, fmt.Errorf("pickup: %w", err)
	}
	if err := dropoff.Validate(); err != nil {
		return FareEstimate{}, fmt.Errorf("dropoff: %w", err)
	}
	distanceKm := location.HaversineKm(pickup, dropoff)
	return CalculateFare(distanceKm, location.EstimateDurationMinutes(distanceKm), tier)
}

// CalculateFare applies the tier rates to an already known distance and
// duration.
func CalculateFare(distanceKm, durationMin float64, tier types.RideTier) (FareEstimate, error) {
	rate, err := RateFor(tier)
	if err != nil {
		return FareEstimate{}, err
	}
	if distanceKm < 0 || durationMin < 0 || math.IsNaN(distanceKm) || math.IsNaN(durationMin) {
		return FareEstimate{}, fmt.Errorf("%w: negative distance or duration", types.ErrInvalidArgument)
	}

	distanceFare := distanceKm * rate.PerKm
	timeFare := durationMin * rate.PerMin

	return FareEstimate{
		RideTier:                 tier,
		BaseFare:                 rate.BaseFare,
		DistanceFare:             distanceFare,
		TimeFare:                 timeFare,
		TotalFare:                roundHalfUp(rate.BaseFare+distanceFare+timeFare, 2),
		Currency:                 Currency,
		EstimatedDurationMinutes: int(roundHalfUp(durationMin, 0)),
		EstimatedDistanceKm:      roundHalfUp(distanceKm, 2),
	}, nil
}

// roundHalfUp rounds x to the given decimals with ties going towards +Inf.
func roundHalfUp(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5) / p
}
