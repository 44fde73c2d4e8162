// README: Pricing service computes fare estimates and records quotes.
package pricing

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"taxi/internal/events"
	"taxi/internal/modules/location"
	"taxi/internal/types"
)

var (
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrQuotesDisabled = errors.New("quote storage not configured")
)

// QuoteStore persists quotes; *Store satisfies it.
type QuoteStore interface {
	SaveQuote(ctx context.Context, q Quote) error
	GetQuote(ctx context.Context, id types.ID) (Quote, error)
}

// EventPublisher emits quote events; *events.Publisher satisfies it.
type EventPublisher interface {
	PublishFareQuoted(ctx context.Context, e events.FareQuoted) error
}

type Service struct {
	store  QuoteStore
	events EventPublisher
	now    func() time.Time
	newID  func() types.ID
}

// NewService wires optional persistence and events; either may be nil.
func NewService(store QuoteStore, publisher EventPublisher) *Service {
	return &Service{
		store:  store,
		events: publisher,
		now:    time.Now,
		newID:  func() types.ID { return types.ID(uuid.NewString()) },
	}
}

func (s *Service) Estimate(_ context.Context, pickup, dropoff types.Point, tier types.RideTier) (FareEstimate, error) {
	return EstimateFare(pickup, dropoff, tier)
}

// Quote prices the trip and then records it. Recording is best effort: a
// failing store or broker is logged and the quote is still returned.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	est, err := EstimateFare(req.Pickup, req.Dropoff, req.RideTier)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		ID:          s.newID(),
		Estimate:    est,
		Pickup:      req.Pickup,
		Dropoff:     req.Dropoff,
		PickupCell:  location.Cell(req.Pickup),
		DropoffCell: location.Cell(req.Dropoff),
		CreatedAt:   s.now().UTC(),
	}

	if s.store != nil {
		if err := s.store.SaveQuote(ctx, q); err != nil {
			log.Printf("pricing: saving quote %s: %v", q.ID, err)
		}
	}
	if s.events != nil {
		if err := s.events.PublishFareQuoted(ctx, quotedEvent(q)); err != nil {
			log.Printf("pricing: %v", err)
		}
	}
	return q, nil
}

// QuoteAllTiers returns one estimate per tier in display order.
func (s *Service) QuoteAllTiers(_ context.Context, pickup, dropoff types.Point) ([]FareEstimate, error) {
	out := make([]FareEstimate, 0, len(types.RideTiers))
	for _, tier := range types.RideTiers {
		est, err := EstimateFare(pickup, dropoff, tier)
		if err != nil {
			return nil, err
		}
		out = append(out, est)
	}
	return out, nil
}

func (s *Service) GetQuote(ctx context.Context, id types.ID) (Quote, error) {
	if s.store == nil {
		return Quote{}, ErrQuotesDisabled
	}
	return s.store.GetQuote(ctx, id)
}

func quotedEvent(q Quote) events.FareQuoted {
	return events.FareQuoted{
		QuoteID:         string(q.ID),
		RideTier:        string(q.Estimate.RideTier),
		TotalFare:       q.Estimate.TotalFare,
		Currency:        q.Estimate.Currency,
		DistanceKm:      q.Estimate.EstimatedDistanceKm,
		DurationMinutes: q.Estimate.EstimatedDurationMinutes,
		PickupCell:      q.PickupCell,
		DropoffCell:     q.DropoffCell,
		QuotedAt:        q.CreatedAt,
	}
}
