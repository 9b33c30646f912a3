package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/http/handler"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/internal/service"
	"github.com/epicevents/crm-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newEventRouter(db *gorm.DB) chi.Router {
	svc := service.NewEventService(
		repository.NewEventRepository(db),
		repository.NewContractRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
	h := handler.NewEventHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/events", h.List)
	r.Post("/events", h.Create)
	r.Get("/events/{id}", h.Get)
	r.Put("/events/{id}", h.Update)
	r.Delete("/events/{id}", h.Delete)
	r.Post("/events/{id}/support", h.AddSupport)
	return r
}

func TestEventHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newEventRouter(db)

	sales := testutil.CreateTestUser(t, db, domain.RoleSales)
	support := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, sales.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, sales.ID, domain.ContractStatusSigned)

	assigned := testutil.CreateTestEvent(t, db, contract)
	testutil.CreateTestEvent(t, db, contract)
	require.NoError(t, db.Model(assigned).Update("support_contact_id", support.ID).Error)

	get := func(user *domain.User, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if user != nil {
			req = asUser(req, user)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("all events", func(t *testing.T) {
		rec := get(support, "/events")
		require.Equal(t, http.StatusOK, rec.Code)

		var events []domain.EventDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
		assert.Len(t, events, 2)
	})

	t.Run("support=current-user", func(t *testing.T) {
		rec := get(support, "/events?support=current-user")
		require.Equal(t, http.StatusOK, rec.Code)

		var events []domain.EventDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.Equal(t, assigned.ID, events[0].ID)
	})

	t.Run("support=none", func(t *testing.T) {
		rec := get(support, "/events?support=none")
		require.Equal(t, http.StatusOK, rec.Code)

		var events []domain.EventDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.NotEqual(t, assigned.ID, events[0].ID)
	})

	t.Run("support=current-user without principal", func(t *testing.T) {
		rec := get(nil, "/events?support=current-user")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown support filter", func(t *testing.T) {
		rec := get(support, "/events?support=bogus")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newEventRouter(db)

	sales := testutil.CreateTestUser(t, db, domain.RoleSales)
	client := testutil.CreateTestClient(t, db, sales.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, sales.ID, domain.ContractStatusSigned)

	t.Run("created", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"title": "John Ouick Wedding",
			"contract_id": %d,
			"event_start": "2026-06-04 13:00:00",
			"event_end": "2026-06-05 02:00:00",
			"location": "Candé-sur-Beuvron",
			"attendees": 75
		}`, contract.ID)

		req := asUser(httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body)), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var dto domain.EventDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		assert.Equal(t, contract.ID, dto.Contract)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"title":"x"}`)), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Contains(t, apiErr.Errors, "contract_id")
		assert.Contains(t, apiErr.Errors, "event_start")
	})
}

func TestEventHandler_AddSupport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newEventRouter(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	sales := testutil.CreateTestUser(t, db, domain.RoleSales)
	support := testutil.CreateTestUser(t, db, domain.RoleSupport)
	client := testutil.CreateTestClient(t, db, sales.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, sales.ID, domain.ContractStatusSigned)
	event := testutil.CreateTestEvent(t, db, contract)

	post := func(user *domain.User, eventID uint, body string) *httptest.ResponseRecorder {
		target := fmt.Sprintf("/events/%d/support", eventID)
		req := asUser(httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)), user)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin assigns support", func(t *testing.T) {
		rec := post(admin, event.ID, fmt.Sprintf(`{"support_contact_id": %d}`, support.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		var dto domain.EventDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		require.NotNil(t, dto.SupportContact)
		assert.Equal(t, support.ID, dto.SupportContact.ID)
	})

	t.Run("non-support assignee", func(t *testing.T) {
		rec := post(admin, event.ID, fmt.Sprintf(`{"support_contact_id": %d}`, sales.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sales cannot assign", func(t *testing.T) {
		rec := post(sales, event.ID, fmt.Sprintf(`{"support_contact_id": %d}`, support.ID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		rec := post(admin, 9999, fmt.Sprintf(`{"support_contact_id": %d}`, support.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventHandler_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newEventRouter(db)

	sales := testutil.CreateTestUser(t, db, domain.RoleSales)
	client := testutil.CreateTestClient(t, db, sales.ID)
	contract := testutil.CreateTestContract(t, db, client.ID, sales.ID, domain.ContractStatusSigned)
	event := testutil.CreateTestEvent(t, db, contract)

	t.Run("found", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%d", event.ID), nil), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/events/abc", nil), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing event", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/events/9999", nil), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
