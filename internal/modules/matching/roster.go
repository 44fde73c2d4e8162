// README: Driver roster persisted in PostgreSQL; used to seed the live registry on startup.
package matching

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxi/internal/types"
)

type PGRoster struct {
	db *pgxpool.Pool
}

func NewPGRoster(db *pgxpool.Pool) *PGRoster {
	return &PGRoster{db: db}
}

// Load returns every driver in registration order.
func (r *PGRoster) Load(ctx context.Context) ([]DriverCandidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, is_online, is_available, vehicle_tier, lat, lng
		FROM drivers
		ORDER BY registered_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DriverCandidate
	for rows.Next() {
		var d DriverCandidate
		var id, tier string
		if err := rows.Scan(&id, &d.IsOnline, &d.IsAvailable, &tier, &d.CurrentLocation.Lat, &d.CurrentLocation.Lng); err != nil {
			return nil, err
		}
		d.ID = types.ID(id)
		d.VehicleTier = VehicleTier(tier)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRoster) Save(ctx context.Context, d DriverCandidate) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO drivers (id, is_online, is_available, vehicle_tier, lat, lng, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			is_online = EXCLUDED.is_online,
			is_available = EXCLUDED.is_available,
			vehicle_tier = EXCLUDED.vehicle_tier,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			updated_at = now()`,
		string(d.ID), d.IsOnline, d.IsAvailable, string(d.VehicleTier),
		d.CurrentLocation.Lat, d.CurrentLocation.Lng,
	)
	return err
}

func (r *PGRoster) Delete(ctx context.Context, id types.ID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, string(id))
	return err
}
