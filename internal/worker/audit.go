package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/events"
)

// AuditWorker writes a structured log line for each security-relevant event.
type AuditWorker struct {
	logger *zap.Logger
}

// NewAuditWorker subscribes the worker to the dispatcher.
func NewAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	w := &AuditWorker{logger: logger.Named("audit")}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventLoginFailed,
		events.EventTokenRevoked,
		events.EventOrderCreated,
		events.EventOrderDeleted,
	} {
		dispatcher.Subscribe(eventType, w.record)
	}
	return w
}

func (w *AuditWorker) record(_ context.Context, event events.Event) error {
	w.logger.Info("event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Time("occurred_at", event.OccurredAt),
		zap.Any("payload", event.Payload))
	return nil
}
