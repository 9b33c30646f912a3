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

func newClientRouter(db *gorm.DB) chi.Router {
	svc := service.NewClientService(repository.NewClientRepository(db), zap.NewNop())
	h := handler.NewClientHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/clients", h.List)
	r.Post("/clients", h.Create)
	r.Get("/clients/{id}", h.Get)
	r.Put("/clients/{id}", h.Update)
	r.Delete("/clients/{id}", h.Delete)
	return r
}

func TestClientHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newClientRouter(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	sales := testutil.CreateTestUser(t, db, domain.RoleSales)

	body := `{"fullname": "Kevin Casey", "email": "kevin@startup.io", "company": "Cool Startup LLC"}`

	t.Run("sales creates and owns the client", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body)), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var dto domain.ClientDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		require.NotNil(t, dto.SalesContact)
		assert.Equal(t, sales.ID, dto.SalesContact.ID)
	})

	t.Run("duplicate", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body)), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin is forbidden", func(t *testing.T) {
		other := `{"fullname": "Lou Bouzin", "email": "lou@startup.io"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(other)), admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		bad := `{"fullname": "Lou Bouzin", "email": "not-an-email"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(bad)), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Contains(t, apiErr.Errors, "email")
	})
}

func TestClientHandler_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newClientRouter(db)

	owner := testutil.CreateTestUser(t, db, domain.RoleSales)
	otherSales := testutil.CreateTestUser(t, db, domain.RoleSales)
	client := testutil.CreateTestClient(t, db, owner.ID)

	target := fmt.Sprintf("/clients/%d", client.ID)

	t.Run("owner updates", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"phone": "99887766"}`)), owner)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var dto domain.ClientDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		assert.Equal(t, "99887766", dto.Phone)
	})

	t.Run("other sales is forbidden", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"phone": "0"}`)), otherSales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
