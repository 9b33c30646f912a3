package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
	logger       *zap.Logger
}

func NewEventHandler(eventService *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param support query string false "Filter by support assignment" Enums(current-user, none)
// @Success 200 {array} domain.EventDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var filters repository.EventFilters

	switch support := r.URL.Query().Get("support"); support {
	case "":
	case "none":
		filters.Unassigned = true
	case "current-user":
		p, ok := auth.FromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		filters.SupportContactID = p.UserID
	default:
		respondWithError(w, http.StatusBadRequest, "support must be current-user or none")
		return
	}

	events, err := h.eventService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} domain.EventDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Create godoc
// @Summary Create an event
// @Description The contract must be signed and the caller must be its sales contact. The event's client and sales contact are derived from the contract.
// @Tags Events
// @Accept json
// @Produce json
// @Param request body domain.CreateEventRequest true "Event"
// @Success 201 {object} domain.EventDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update an event
// @Description Only the assigned support contact
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body domain.UpdateEventRequest true "Fields to update"
// @Success 200 {object} domain.EventDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// AddSupport godoc
// @Summary Assign a support contact
// @Description Management only. The assignee must hold the support role or the request fails whole.
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body domain.AddSupportRequest true "Assignee"
// @Success 200 {object} domain.EventDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /events/{id}/support [post]
func (h *EventHandler) AddSupport(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.AddSupportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	event, err := h.eventService.AddSupport(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Only the event's sales contact
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
