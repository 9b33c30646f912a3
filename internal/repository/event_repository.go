package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/epicevents/crm-api/internal/domain"
)

// EventFilters narrows event listings. Zero values mean no filter.
type EventFilters struct {
	// SupportContactID selects events assigned to a specific support user
	SupportContactID uint
	// Unassigned selects events with no support contact yet
	Unassigned bool
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("SalesContact").
		Preload("SupportContact").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Event{}, "id = ?", id).Error
}

func (r *EventRepository) List(ctx context.Context, filters EventFilters) ([]domain.Event, error) {
	var events []domain.Event
	query := r.db.WithContext(ctx).
		Preload("Client").
		Preload("SalesContact").
		Preload("SupportContact")

	if filters.SupportContactID != 0 {
		query = query.Where("support_contact_id = ?", filters.SupportContactID)
	}
	if filters.Unassigned {
		query = query.Where("support_contact_id IS NULL")
	}

	err := query.Order("id").Find(&events).Error
	return events, err
}
