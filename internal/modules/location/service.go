// README: Location service records position snapshots for later replay.
package location

import (
	"context"
	"time"

	"taxi/internal/types"
)

// SnapshotStore is the persistence port; *Store satisfies it.
type SnapshotStore interface {
	AppendSnapshot(ctx context.Context, snap Snapshot) error
}

type Service struct {
	store SnapshotStore
	now   func() time.Time
}

// NewService returns a Service. A nil store turns Record into a validating no-op.
func NewService(store SnapshotStore) *Service {
	return &Service{store: store, now: time.Now}
}

type Update struct {
	UserID   types.ID
	UserType string
	Position types.Point
}

func (s *Service) Record(ctx context.Context, u Update) error {
	if err := u.Position.Validate(); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	snap := Snapshot{
		UserID:     u.UserID,
		UserType:   u.UserType,
		Position:   u.Position,
		Cell:       Cell(u.Position),
		RecordedAt: s.now(),
	}
	return s.store.AppendSnapshot(ctx, snap)
}
