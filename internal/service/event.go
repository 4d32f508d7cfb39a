package service

import (
	"context"
	"fmt"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/repository"
)

type eventService struct {
	eventRepo repository.EventRepository
}

func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent stores event after trimming its fields. Nothing is stored when
// any field is empty.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	event.Normalize()
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.ID = ""

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	logger.InfoContext(ctx, "Event created", "eventID", event.ID, "clubName", event.ClubName)
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}
