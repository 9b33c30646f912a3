package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/repository"
	"github.com/epicevents/crm-api/internal/service"
)

type ContractHandler struct {
	contractService *service.ContractService
	logger          *zap.Logger
}

func NewContractHandler(contractService *service.ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		logger:          logger,
	}
}

// List godoc
// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, signed)
// @Param remaining-amount query bool false "Only contracts with a positive remaining amount"
// @Success 200 {array} domain.ContractDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	var filters repository.ContractFilters

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ContractStatus(status)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "status must be pending or signed")
			return
		}
		filters.Status = s
	}
	if owing := r.URL.Query().Get("remaining-amount"); owing == "true" {
		filters.Owing = true
	}

	contracts, err := h.contractService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list contracts", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}

// Get godoc
// @Summary Get a contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} domain.ContractDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := h.contractService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contract)
}

// Create godoc
// @Summary Create a contract
// @Description Management only. When remaining_amount is omitted it starts equal to total_amount.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body domain.CreateContractRequest true "Contract"
// @Success 201 {object} domain.ContractDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	contract, err := h.contractService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, contract)
}

// Update godoc
// @Summary Update a contract
// @Description Management only
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param request body domain.UpdateContractRequest true "Fields to update"
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.UpdateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	contract, err := h.contractService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contract)
}

// Delete godoc
// @Summary Delete a contract
// @Description Only the owning sales contact, and only while the contract has no events
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contractService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
