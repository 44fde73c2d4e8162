// README: Ride tiers (service classes) shared by pricing and matching.
package types

import "fmt"

type RideTier string

const (
	RideTierStandard RideTier = "standard"
	RideTierPremium  RideTier = "premium"
	RideTierXL       RideTier = "xl"
	RideTierExpress  RideTier = "express"
)

// RideTiers lists every tier in display order.
var RideTiers = []RideTier{RideTierStandard, RideTierPremium, RideTierXL, RideTierExpress}

func (t RideTier) Valid() bool {
	switch t {
	case RideTierStandard, RideTierPremium, RideTierXL, RideTierExpress:
		return true
	}
	return false
}

// ParseRideTier accepts only the exact lowercase tier names. There is no
// fallback tier.
func ParseRideTier(s string) (RideTier, error) {
	t := RideTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown ride tier %q", ErrInvalidArgument, s)
	}
	return t, nil
}
