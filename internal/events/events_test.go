package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return p.err
}

func TestNew(t *testing.T) {
	expense := &models.Expense{ID: 3, Amount: 1}
	e := New(ExpenseCreated, 3, expense)

	if !uuid.IsValid(e.ID) {
		t.Errorf("expected UUID event id, got %q", e.ID)
	}
	if e.Type != ExpenseCreated || e.ExpenseID != 3 || e.Expense != expense {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.OccurredAt.IsZero() || e.OccurredAt.Location().String() != "UTC" {
		t.Errorf("expected UTC timestamp, got %v", e.OccurredAt)
	}
}

func TestCombine(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		if _, ok := Combine().(NopPublisher); !ok {
			t.Error("expected NopPublisher")
		}
	})

	t.Run("single", func(t *testing.T) {
		p := &recordingPublisher{}
		if got := Combine(p); got != Publisher(p) {
			t.Error("expected the publisher itself")
		}
	})

	t.Run("many", func(t *testing.T) {
		a, b := &recordingPublisher{}, &recordingPublisher{}
		pub := Combine(a, b)

		if err := pub.Publish(context.Background(), New(ExpenseDeleted, 9, nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(a.events) != 1 || len(b.events) != 1 {
			t.Errorf("expected both publishers to receive the event, got %d and %d", len(a.events), len(b.events))
		}

		if err := pub.Close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
		if !a.closed || !b.closed {
			t.Error("expected both publishers closed")
		}
	})
}

func TestFanout_Error(t *testing.T) {
	boom := errors.New("broker down")
	ok, failing := &recordingPublisher{}, &recordingPublisher{err: boom}
	pub := Fanout{ok, failing}

	err := pub.Publish(context.Background(), New(ExpenseUpdated, 1, nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	if len(ok.events) != 1 {
		t.Error("healthy publisher should still receive the event")
	}

	if err := pub.Close(); !errors.Is(err, boom) {
		t.Errorf("expected close error to be reported, got %v", err)
	}
}
