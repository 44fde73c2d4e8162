// README: Driver registries; the in-memory one keeps an R-tree for radius pre-selection.
package matching

import (
	"context"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"taxi/internal/modules/location"
	"taxi/internal/types"
)

// Registry holds the live driver snapshots. Near may return a superset of the
// drivers within radiusKm but must return them in registration order.
type Registry interface {
	Upsert(ctx context.Context, d DriverCandidate) error
	Remove(ctx context.Context, id types.ID) error
	Get(ctx context.Context, id types.ID) (DriverCandidate, error)
	Snapshot(ctx context.Context) ([]DriverCandidate, error)
	Near(ctx context.Context, p types.Point, radiusKm float64) ([]DriverCandidate, error)
}

// pointTolerance gives each driver a non-degenerate rectangle in the tree.
const pointTolerance = 1e-9

type memoryEntry struct {
	seq    uint64
	driver DriverCandidate
	rect   rtreego.Rect
}

func (e *memoryEntry) Bounds() rtreego.Rect {
	return e.rect
}

// MemoryRegistry is a process-local Registry. Tree axes are (lng, lat).
type MemoryRegistry struct {
	mu      sync.RWMutex
	nextSeq uint64
	byID    map[types.ID]*memoryEntry
	tree    *rtreego.Rtree
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byID: make(map[types.ID]*memoryEntry),
		tree: rtreego.NewTree(2, 25, 50),
	}
}

func (r *MemoryRegistry) Upsert(_ context.Context, d DriverCandidate) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.nextSeq
	if old, ok := r.byID[d.ID]; ok {
		seq = old.seq
		r.tree.Delete(old)
	} else {
		r.nextSeq++
	}
	e := &memoryEntry{
		seq:    seq,
		driver: d,
		rect:   rtreego.Point{d.CurrentLocation.Lng, d.CurrentLocation.Lat}.ToRect(pointTolerance),
	}
	r.byID[d.ID] = e
	r.tree.Insert(e)
	return nil
}

func (r *MemoryRegistry) Remove(_ context.Context, id types.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return ErrDriverNotFound
	}
	r.tree.Delete(e)
	delete(r.byID, id)
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, id types.ID) (DriverCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return DriverCandidate{}, ErrDriverNotFound
	}
	return e.driver, nil
}

func (r *MemoryRegistry) Snapshot(_ context.Context) ([]DriverCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*memoryEntry, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	return inRegistrationOrder(entries), nil
}

func (r *MemoryRegistry) Near(ctx context.Context, p types.Point, radiusKm float64) ([]DriverCandidate, error) {
	box, ok := location.BoundingBox(p, radiusKm)
	if !ok {
		return r.Snapshot(ctx)
	}
	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{box.MinLng, box.MinLat},
		rtreego.Point{box.MaxLng, box.MaxLat},
	)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	hits := r.tree.SearchIntersect(rect)
	entries := make([]*memoryEntry, 0, len(hits))
	for _, h := range hits {
		entries = append(entries, h.(*memoryEntry))
	}
	return inRegistrationOrder(entries), nil
}

func inRegistrationOrder(entries []*memoryEntry) []DriverCandidate {
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]DriverCandidate, len(entries))
	for i, e := range entries {
		out[i] = e.driver
	}
	return out
}
