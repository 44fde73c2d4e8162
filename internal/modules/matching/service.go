// README: Matching service keeps the live driver registry and answers nearby/nearest lookups.
package matching

import (
	"context"
	"fmt"
	"log"

	"taxi/internal/modules/location"
	"taxi/internal/types"
)

// Roster is the durable driver list; *PGRoster satisfies it.
type Roster interface {
	Load(ctx context.Context) ([]DriverCandidate, error)
	Save(ctx context.Context, d DriverCandidate) error
	Delete(ctx context.Context, id types.ID) error
}

// LocationRecorder receives every accepted driver position.
type LocationRecorder interface {
	Record(ctx context.Context, u location.Update) error
}

type Service struct {
	registry Registry
	roster   Roster
	recorder LocationRecorder
}

// NewService requires a registry; roster and recorder may be nil.
func NewService(registry Registry, roster Roster, recorder LocationRecorder) *Service {
	return &Service{registry: registry, roster: roster, recorder: recorder}
}

// Seed copies the roster into the registry. Invalid rows are logged and skipped.
func (s *Service) Seed(ctx context.Context) (int, error) {
	if s.roster == nil {
		return 0, nil
	}
	drivers, err := s.roster.Load(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, d := range drivers {
		if err := s.registry.Upsert(ctx, d); err != nil {
			log.Printf("matching: seeding driver %s: %v", d.ID, err)
			continue
		}
		n++
	}
	return n, nil
}

// UpdateDriver stores a full driver snapshot.
func (s *Service) UpdateDriver(ctx context.Context, d DriverCandidate) (DriverCandidate, error) {
	if err := s.registry.Upsert(ctx, d); err != nil {
		return DriverCandidate{}, err
	}
	s.persist(ctx, d)
	s.record(ctx, d)
	return d, nil
}

// UpdateLocation moves an existing driver.
func (s *Service) UpdateLocation(ctx context.Context, id types.ID, p types.Point) (DriverCandidate, error) {
	if err := p.Validate(); err != nil {
		return DriverCandidate{}, err
	}
	d, err := s.registry.Get(ctx, id)
	if err != nil {
		return DriverCandidate{}, err
	}
	d.CurrentLocation = p
	return s.UpdateDriver(ctx, d)
}

func (s *Service) SetStatus(ctx context.Context, id types.ID, u StatusUpdate) (DriverCandidate, error) {
	d, err := s.registry.Get(ctx, id)
	if err != nil {
		return DriverCandidate{}, err
	}
	if u.IsOnline != nil {
		d.IsOnline = *u.IsOnline
	}
	if u.IsAvailable != nil {
		d.IsAvailable = *u.IsAvailable
	}
	if err := s.registry.Upsert(ctx, d); err != nil {
		return DriverCandidate{}, err
	}
	s.persist(ctx, d)
	return d, nil
}

func (s *Service) RemoveDriver(ctx context.Context, id types.ID) error {
	if err := s.registry.Remove(ctx, id); err != nil {
		return err
	}
	if s.roster != nil {
		if err := s.roster.Delete(ctx, id); err != nil {
			log.Printf("matching: deleting driver %s from roster: %v", id, err)
		}
	}
	return nil
}

func (s *Service) GetDriver(ctx context.Context, id types.ID) (DriverCandidate, error) {
	return s.registry.Get(ctx, id)
}

// NearbyDrivers returns the eligible drivers around rider in registration order.
func (s *Service) NearbyDrivers(ctx context.Context, rider types.Point, tier types.RideTier) ([]DriverCandidate, error) {
	if err := rider.Validate(); err != nil {
		return nil, fmt.Errorf("rider: %w", err)
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown ride tier %q", types.ErrInvalidArgument, tier)
	}
	candidates, err := s.registry.Near(ctx, rider, SearchRadiusKm)
	if err != nil {
		return nil, err
	}
	return FilterNearbyDrivers(rider, tier, candidates)
}

// NearestDriver is a read-only lookup; it does not reserve the driver.
func (s *Service) NearestDriver(ctx context.Context, rider types.Point, tier types.RideTier) (NearbyDriver, error) {
	drivers, err := s.NearbyDrivers(ctx, rider, tier)
	if err != nil {
		return NearbyDriver{}, err
	}
	if len(drivers) == 0 {
		return NearbyDriver{}, ErrNoDriverAvailable
	}
	ranked := WithDistances(rider, drivers)
	location.SortByDistance(ranked, func(n NearbyDriver) float64 { return n.DistanceKm })
	return ranked[0], nil
}

// WithDistances annotates drivers with their distance from rider, keeping order.
func WithDistances(rider types.Point, drivers []DriverCandidate) []NearbyDriver {
	out := make([]NearbyDriver, len(drivers))
	for i, d := range drivers {
		out[i] = NearbyDriver{DriverCandidate: d, DistanceKm: location.HaversineKm(rider, d.CurrentLocation)}
	}
	return out
}

func (s *Service) persist(ctx context.Context, d DriverCandidate) {
	if s.roster == nil {
		return
	}
	if err := s.roster.Save(ctx, d); err != nil {
		log.Printf("matching: saving driver %s: %v", d.ID, err)
	}
}

func (s *Service) record(ctx context.Context, d DriverCandidate) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, location.Update{
		UserID:   d.ID,
		UserType: location.UserTypeDriver,
		Position: d.CurrentLocation,
	})
	if err != nil {
		log.Printf("matching: recording location of %s: %v", d.ID, err)
	}
}
