package services

import (
	"context"
	"time"

	"expensetracker/internal/events"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

// publishTimeout bounds how long a mutation waits on the event broker.
const publishTimeout = 5 * time.Second

// auditService publishes expense lifecycle events.
type auditService struct {
	publisher events.Publisher
}

// NewAuditService creates a new AuditServicer. A nil publisher drops events.
func NewAuditService(publisher events.Publisher) AuditServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &auditService{publisher: publisher}
}

// Record publishes an event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Record(ctx context.Context, eventType events.Type, expenseID int64, expense *models.Expense) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.New(eventType, expenseID, expense)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Errorw("failed to publish expense event",
			"error", err,
			"event_id", event.ID,
			"event_type", eventType,
			"expense_id", expenseID,
		)
	}
}
