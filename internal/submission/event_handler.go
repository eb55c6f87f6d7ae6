package submission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/payroll-bridge/internal/core/events"
)

type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleMovementProcessed(ctx context.Context, event events.Event) error {
	processed, ok := event.(*events.MovementProcessedEvent)
	if !ok {
		h.logger.Error("invalid event type for movement processed handler", "event_type", event.EventType())
		return fmt.Errorf("expected MovementProcessedEvent, got %T", event)
	}

	if err := h.service.Record(ctx, processed); err != nil {
		h.logger.Error("failed to record movement submission",
			"error", err,
			"batch_id", processed.BatchID,
			"event_code", processed.EventCode,
			"event_id", processed.EventID())
		return fmt.Errorf("audit failed for batch %s: %w", processed.BatchID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeMovementSucceeded, h.HandleMovementProcessed)
	eventBus.Subscribe(events.EventTypeMovementFailed, h.HandleMovementProcessed)

	h.logger.Info("submission event handlers registered",
		"handlers", []string{events.EventTypeMovementSucceeded, events.EventTypeMovementFailed})
}
