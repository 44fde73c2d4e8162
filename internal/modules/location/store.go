// README: Location snapshot store backed by Postgres.
package location

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO location_snapshots (user_id, user_type, lat, lng, geohash, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(snap.UserID),
		snap.UserType,
		snap.Position.Lat,
		snap.Position.Lng,
		snap.Cell,
		snap.RecordedAt,
	)
	return err
}
