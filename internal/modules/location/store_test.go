package location

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taxi/internal/testutil"
	"taxi/internal/types"
)

func TestStoreAppendSnapshot(t *testing.T) {
	db := testutil.Postgres(t)
	ctx := context.Background()
	svc := NewService(NewStore(db))
	uid := types.ID(fmt.Sprintf("snap-%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_, _ = db.Exec(ctx, `DELETE FROM location_snapshots WHERE user_id = $1`, string(uid))
	})

	p := types.Point{Lat: 12.5092, Lng: -70.0086}
	if err := svc.Record(ctx, Update{UserID: uid, UserType: UserTypeDriver, Position: p}); err != nil {
		t.Fatalf("record: %v", err)
	}

	var cell string
	var n int
	err := db.QueryRow(ctx, `SELECT count(*), max(geohash) FROM location_snapshots WHERE user_id = $1`, string(uid)).Scan(&n, &cell)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 || cell != Cell(p) {
		t.Errorf("rows=%d cell=%q, want 1 %q", n, cell, Cell(p))
	}
}
