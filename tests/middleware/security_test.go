package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epicevents/crm-api/internal/config"
	"github.com/epicevents/crm-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Run("all headers enabled", func(t *testing.T) {
		cfg := &config.SecurityConfig{
			EnableHSTS:            true,
			HSTSMaxAge:            31536000,
			HSTSIncludeSubdomains: true,
			ContentSecurityPolicy: "default-src 'self'",
			FrameOptions:          "DENY",
			ContentTypeNosniff:    true,
			ReferrerPolicy:        "strict-origin-when-cross-origin",
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		middleware.SecurityHeaders(cfg)(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
		assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	})

	t.Run("disabled headers stay absent", func(t *testing.T) {
		cfg := &config.SecurityConfig{}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		middleware.SecurityHeaders(cfg)(okHandler()).ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	})

	t.Run("hsts without subdomains", func(t *testing.T) {
		cfg := &config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 3600}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		middleware.SecurityHeaders(cfg)(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "max-age=3600", rec.Header().Get("Strict-Transport-Security"))
	})
}
