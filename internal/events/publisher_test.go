package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishFareQuoted(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w)
	at := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

	err := p.PublishFareQuoted(context.Background(), FareQuoted{
		QuoteID:    "q1",
		RideTier:   "standard",
		TotalFare:  10.99,
		Currency:   "AWG",
		PickupCell: "d6n0r3x",
		QuotedAt:   at,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "d6n0r3x" {
		t.Errorf("key = %q, want pickup cell", msg.Key)
	}
	if !msg.Time.Equal(at) {
		t.Errorf("time = %v, want %v", msg.Time, at)
	}

	var got FareQuoted
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Type != TypeFareQuoted || got.QuoteID != "q1" || got.TotalFare != 10.99 {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestPublishFareQuoted_WriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := NewPublisher(&fakeWriter{err: boom})
	err := p.PublishFareQuoted(context.Background(), FareQuoted{QuoteID: "q2"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped writer error, got %v", err)
	}
}

func TestPublisherClose(t *testing.T) {
	w := &fakeWriter{}
	if err := NewPublisher(w).Close(); err != nil {
		t.Fatal(err)
	}
	if !w.closed {
		t.Error("writer was not closed")
	}
}
