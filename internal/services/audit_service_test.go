package services

import (
	"context"
	"errors"
	"testing"

	"expensetracker/internal/events"
	"expensetracker/internal/models"
)

type capturePublisher struct {
	published []events.Event
	err       error
}

func (p *capturePublisher) Publish(ctx context.Context, e events.Event) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected publish deadline")
	}
	p.published = append(p.published, e)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func TestAuditService_Record(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewAuditService(pub)

	e := &models.Expense{ID: 4, Amount: 9}
	svc.Record(context.Background(), events.ExpenseCreated, 4, e)

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.published))
	}
	got := pub.published[0]
	if got.Type != events.ExpenseCreated || got.ExpenseID != 4 || got.Expense != e || got.ID == "" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestAuditService_RecordSurvivesCancelledRequest(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewAuditService(pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Record(ctx, events.ExpenseDeleted, 1, nil)

	if len(pub.published) != 1 {
		t.Fatalf("expected event despite cancelled request context, got %d", len(pub.published))
	}
}

func TestAuditService_PublishErrorIsSwallowed(t *testing.T) {
	svc := NewAuditService(&capturePublisher{err: errors.New("broker down")})

	// Must not panic or propagate.
	svc.Record(context.Background(), events.ExpenseUpdated, 2, nil)
}

func TestAuditService_NilPublisher(t *testing.T) {
	svc := NewAuditService(nil)
	svc.Record(context.Background(), events.ExpenseUpdated, 2, nil)
}
