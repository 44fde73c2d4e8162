package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"taxi/internal/types"
)

type recordingStore struct {
	snaps []Snapshot
	err   error
}

func (r *recordingStore) AppendSnapshot(_ context.Context, snap Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, snap)
	return nil
}

func TestRecord_AppendsSnapshot(t *testing.T) {
	store := &recordingStore{}
	svc := NewService(store)
	fixed := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	pos := types.Point{Lat: 12.5150, Lng: -70.0200}
	err := svc.Record(context.Background(), Update{UserID: "d1", UserType: UserTypeDriver, Position: pos})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(store.snaps))
	}
	got := store.snaps[0]
	if got.UserID != "d1" || got.UserType != UserTypeDriver || got.Position != pos {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.Cell != Cell(pos) {
		t.Errorf("cell = %q, want %q", got.Cell, Cell(pos))
	}
	if !got.RecordedAt.Equal(fixed) {
		t.Errorf("recorded_at = %v, want %v", got.RecordedAt, fixed)
	}
}

func TestRecord_RejectsInvalidPosition(t *testing.T) {
	store := &recordingStore{}
	svc := NewService(store)
	err := svc.Record(context.Background(), Update{UserID: "d1", Position: types.Point{Lat: 120, Lng: 0}})
	if !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if len(store.snaps) != 0 {
		t.Errorf("invalid update must not be stored")
	}
}

func TestRecord_NilStore(t *testing.T) {
	svc := NewService(nil)
	if err := svc.Record(context.Background(), Update{UserID: "d1", Position: types.Point{Lat: 1, Lng: 1}}); err != nil {
		t.Fatalf("nil store should be a no-op, got %v", err)
	}
}

func TestRecord_StoreError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&recordingStore{err: boom})
	err := svc.Record(context.Background(), Update{UserID: "d1", Position: types.Point{Lat: 1, Lng: 1}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
