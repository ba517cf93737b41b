package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/stringing-service/internal/events"
)

// EventLogService writes lifecycle events to the structured log, giving an
// audit trail of who moved which job where.
type EventLogService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewEventLogService creates the service.
func NewEventLogService(dispatcher events.Dispatcher, logger *zap.Logger) *EventLogService {
	return &EventLogService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *EventLogService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStringingCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventStringingStateChanged, n.handleEvent)
	n.dispatcher.Subscribe(events.EventStringingReassigned, n.handleEvent)
}

func (n *EventLogService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info("stringing event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("stringing_id", event.StringingID),
		zap.String("actor_user_id", event.ActorUserID),
		zap.Any("payload", event.Payload))
	return nil
}
