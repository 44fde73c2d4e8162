// README: Fare quote store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxi/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) SaveQuote(ctx context.Context, q Quote) error {
	e := q.Estimate
	_, err := s.db.Exec(ctx, `
		INSERT INTO fare_quotes (
			id, ride_tier, base_fare, distance_fare, time_fare, total_fare, currency,
			duration_minutes, distance_km,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			pickup_geohash, dropoff_geohash, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9,
			$10, $11, $12, $13,
			$14, $15, $16
		)`,
		string(q.ID), string(e.RideTier), e.BaseFare, e.DistanceFare, e.TimeFare, e.TotalFare, e.Currency,
		e.EstimatedDurationMinutes, e.EstimatedDistanceKm,
		q.Pickup.Lat, q.Pickup.Lng, q.Dropoff.Lat, q.Dropoff.Lng,
		q.PickupCell, q.DropoffCell, q.CreatedAt,
	)
	return err
}

func (s *Store) GetQuote(ctx context.Context, id types.ID) (Quote, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, ride_tier, base_fare, distance_fare, time_fare, total_fare, currency,
		       duration_minutes, distance_km,
		       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		       pickup_geohash, dropoff_geohash, created_at
		FROM fare_quotes
		WHERE id = $1`, string(id),
	)

	var q Quote
	var qid, tier string
	e := &q.Estimate
	err := row.Scan(
		&qid, &tier, &e.BaseFare, &e.DistanceFare, &e.TimeFare, &e.TotalFare, &e.Currency,
		&e.EstimatedDurationMinutes, &e.EstimatedDistanceKm,
		&q.Pickup.Lat, &q.Pickup.Lng, &q.Dropoff.Lat, &q.Dropoff.Lng,
		&q.PickupCell, &q.DropoffCell, &q.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrQuoteNotFound
	}
	if err != nil {
		return Quote{}, err
	}
	q.ID = types.ID(qid)
	e.RideTier = types.RideTier(tier)
	return q, nil
}
