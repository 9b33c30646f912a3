package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// CreateToken godoc
// @Summary Mint a bearer token
// @Description Exchange HTTP Basic credentials for an opaque bearer token. A still-fresh existing token is returned unchanged.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.TokenDTO
// @Failure 401 {object} domain.APIError
// @Security BasicAuth
// @Router /tokens [post]
func (h *AuthHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="epicevents"`)
		respondWithError(w, http.StatusUnauthorized, "basic authentication required")
		return
	}

	token, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, token)
}

// DeleteToken godoc
// @Summary Revoke the current token
// @Description Invalidates the caller's bearer token immediately
// @Tags Auth
// @Produce json
// @Success 204
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /tokens [delete]
func (h *AuthHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// CheckAuthorization godoc
// @Summary Pre-flight capability check
// @Description Answers whether the caller's role has a path to the given "resource:action" target. Ownership can still deny the real operation.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.AuthorizationRequest true "Capability target"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /authorizations [post]
func (h *AuthHandler) CheckAuthorization(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.authService.CheckAuthorization(r.Context(), req.Target); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
