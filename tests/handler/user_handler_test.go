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

func newUserRouter(db *gorm.DB) chi.Router {
	svc := service.NewUserService(repository.NewUserRepository(db), zap.NewNop())
	h := handler.NewUserHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/users", h.List)
	r.Post("/users", h.Create)
	r.Get("/users/{id}", h.Get)
	r.Put("/users/{id}", h.Update)
	r.Delete("/users/{id}", h.Delete)
	return r
}

func TestUserHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newUserRouter(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	sales := testutil.CreateTestUser(t, db, domain.RoleSales)

	body := `{
		"fullname": "Kate Hastroff",
		"email": "kate@epicevents.example",
		"role": "support",
		"password": "long-enough-password"
	}`

	t.Run("admin creates a user", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)), admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var dto domain.UserDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		assert.Equal(t, domain.RoleSupport, dto.Role)

		// the response never carries credentials
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "token")
	})

	t.Run("sales is forbidden", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)), sales)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		bad := `{"fullname": "X", "email": "x@test.example", "role": "sales", "password": "short"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(bad)), admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Contains(t, apiErr.Errors, "password")
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		bad := `{"fullname": "Y", "email": "y@test.example", "role": "manager", "password": "long-enough-password"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(bad)), admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr domain.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Contains(t, apiErr.Errors, "role")
	})
}

func TestUserHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newUserRouter(db)

	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	support := testutil.CreateTestUser(t, db, domain.RoleSupport)

	t.Run("admin deletes", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/users/%d", support.ID), nil), admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodDelete, "/users/9999", nil), admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
