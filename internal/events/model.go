// README: Domain events emitted to Kafka.
package events

import "time"

const TypeFareQuoted = "fare.quoted"

// FareQuoted is published once per persisted quote.
type FareQuoted struct {
	Type            string    `json:"type"`
	QuoteID         string    `json:"quote_id"`
	RideTier        string    `json:"ride_tier"`
	TotalFare       float64   `json:"total_fare"`
	Currency        string    `json:"currency"`
	DistanceKm      float64   `json:"distance_km"`
	DurationMinutes int       `json:"duration_minutes"`
	PickupCell      string    `json:"pickup_cell"`
	DropoffCell     string    `json:"dropoff_cell"`
	QuotedAt        time.Time `json:"quoted_at"`
}
