package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joshua-takyi/eventhub/internal/models"
)

type EventService struct {
	eventsRepo models.EventRepo
	logger     *slog.Logger
}

func NewEventService(eventsRepo models.EventRepo, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		logger:     logger,
	}
}

func (es *EventService) CreateEvent(ctx context.Context, caller string, payload models.EventPayload) (*models.Event, error) {
	event, err := es.eventsRepo.CreateEvent(ctx, caller, payload)
	if err != nil {
		return nil, err
	}
	es.logger.InfoContext(ctx, "Event created", "event_id", event.ID, "owner", event.Owner)
	return event, nil
}

func (es *EventService) GetEvent(ctx context.Context, id uint64) (*models.Event, error) {
	return es.eventsRepo.GetEvent(ctx, id)
}

func (es *EventService) UpdateEvent(ctx context.Context, caller string, id uint64, payload models.EventPayload) (*models.Event, error) {
	event, err := es.eventsRepo.UpdateEvent(ctx, caller, id, payload)
	if err != nil {
		es.auditRejection(ctx, "update", id, err)
		return nil, err
	}
	return event, nil
}

func (es *EventService) DeleteEvent(ctx context.Context, caller string, id uint64) (*models.Event, error) {
	event, err := es.eventsRepo.DeleteEvent(ctx, caller, id)
	if err != nil {
		es.auditRejection(ctx, "delete", id, err)
		return nil, err
	}
	es.logger.InfoContext(ctx, "Event deleted", "event_id", id, "owner", event.Owner)
	return event, nil
}

func (es *EventService) AttendEvent(ctx context.Context, caller string, id uint64) (*models.Event, error) {
	event, err := es.eventsRepo.AttendEvent(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	es.logger.DebugContext(ctx, "Attendance recorded", "event_id", id, "caller", caller, "attendees", len(event.Attendees))
	return event, nil
}

func (es *EventService) auditRejection(ctx context.Context, op string, id uint64, err error) {
	var authErr *models.NotAuthorizedError
	if errors.As(err, &authErr) {
		es.logger.WarnContext(ctx, "Ownership check failed",
			"operation", op,
			"event_id", id,
			"caller", authErr.Caller,
		)
	}
}
