package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/mapper"
	"github.com/epicevents/crm-api/internal/repository"
)

type EventService struct {
	eventRepo    *repository.EventRepository
	contractRepo *repository.ContractRepository
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

func NewEventService(
	eventRepo *repository.EventRepository,
	contractRepo *repository.ContractRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		contractRepo: contractRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

func (s *EventService) List(ctx context.Context, filters repository.EventFilters) ([]domain.EventDTO, error) {
	if _, err := authorize(ctx, auth.CapEventsList, nil); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	dtos := make([]domain.EventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, mapper.ToEventDTO(&events[i]))
	}
	return dtos, nil
}

func (s *EventService) GetByID(ctx context.Context, id uint) (*domain.EventDTO, error) {
	if _, err := authorize(ctx, auth.CapEventsGet, nil); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "event")
	}

	dto := mapper.ToEventDTO(event)
	return &dto, nil
}

// Create registers a new event under a signed contract. The event's
// client and sales contact come from the contract, never from the
// request, and the support contact starts unassigned.
func (s *EventService) Create(ctx context.Context, req *domain.CreateEventRequest) (*domain.EventDTO, error) {
	p, err := authorize(ctx, auth.CapEventsCreate, nil)
	if err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, req.ContractID)
	if err != nil {
		return nil, wrapNotFound(err, "contract")
	}

	if err := CheckEventCreation(p, contract); err != nil {
		return nil, err
	}

	start, end, err := parseEventTimes(req.EventStart, req.EventEnd)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:          req.Title,
		ContractID:     contract.ID,
		ClientID:       contract.ClientID,
		SalesContactID: contract.SalesContactID,
		EventStart:     start,
		EventEnd:       end,
		Location:       req.Location,
		Attendees:      req.Attendees,
		Notes:          req.Notes,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("event created",
		zap.Uint("event_id", event.ID),
		zap.Uint("contract_id", contract.ID),
		zap.Uint("created_by", p.UserID),
	)

	created, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, wrapNotFound(err, "event")
	}
	dto := mapper.ToEventDTO(created)
	return &dto, nil
}

func (s *EventService) Update(ctx context.Context, id uint, req *domain.UpdateEventRequest) (*domain.EventDTO, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "event")
	}

	p, err := authorize(ctx, auth.CapEventsUpdate, event)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.EventStart != nil {
		start, err := time.Parse(domain.EventTimeFormat, *req.EventStart)
		if err != nil {
			return nil, fmt.Errorf("%w: event_start must use format %q", ErrInvalidInput, domain.EventTimeFormat)
		}
		event.EventStart = start
	}
	if req.EventEnd != nil {
		end, err := time.Parse(domain.EventTimeFormat, *req.EventEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: event_end must use format %q", ErrInvalidInput, domain.EventTimeFormat)
		}
		event.EventEnd = end
	}
	if event.EventEnd.Before(event.EventStart) {
		return nil, fmt.Errorf("%w: event_end is before event_start", ErrInvalidInput)
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Attendees != nil {
		event.Attendees = *req.Attendees
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info("event updated",
		zap.Uint("event_id", event.ID),
		zap.Uint("updated_by", p.UserID),
	)

	dto := mapper.ToEventDTO(event)
	return &dto, nil
}

// AddSupport assigns a support contact to an event. When the assignee
// does not hold the support role the request fails whole and the event
// keeps its previous assignment.
func (s *EventService) AddSupport(ctx context.Context, id uint, req *domain.AddSupportRequest) (*domain.EventDTO, error) {
	p, err := authorize(ctx, auth.CapEventsAddSupport, nil)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "event")
	}

	assignee, err := s.userRepo.GetByID(ctx, req.SupportContactID)
	if err != nil {
		return nil, wrapNotFound(err, "support contact")
	}

	if err := CheckSupportAssignment(assignee); err != nil {
		return nil, err
	}

	event.SupportContactID = &assignee.ID
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to assign support contact: %w", err)
	}

	s.logger.Info("support contact assigned",
		zap.Uint("event_id", event.ID),
		zap.Uint("support_contact_id", assignee.ID),
		zap.Uint("assigned_by", p.UserID),
	)

	updated, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, wrapNotFound(err, "event")
	}
	dto := mapper.ToEventDTO(updated)
	return &dto, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return wrapNotFound(err, "event")
	}

	p, err := authorize(ctx, auth.CapEventsDelete, event)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Info("event deleted",
		zap.Uint("event_id", id),
		zap.Uint("deleted_by", p.UserID),
	)
	return nil
}

func parseEventTimes(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(domain.EventTimeFormat, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: event_start must use format %q", ErrInvalidInput, domain.EventTimeFormat)
	}
	end, err := time.Parse(domain.EventTimeFormat, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: event_end must use format %q", ErrInvalidInput, domain.EventTimeFormat)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: event_end is before event_start", ErrInvalidInput)
	}
	return start, end, nil
}
