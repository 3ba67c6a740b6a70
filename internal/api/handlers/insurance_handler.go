package handlers

import (
	"net/http"

	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
)

// InsuranceHandler handles insurance carrier HTTP requests
type InsuranceHandler struct {
	insuranceRepo repositories.InsuranceRepository
}

// NewInsuranceHandler creates a new insurance handler
func NewInsuranceHandler(insuranceRepo repositories.InsuranceRepository) *InsuranceHandler {
	return &InsuranceHandler{insuranceRepo: insuranceRepo}
}

// ListInsuranceProviders handles GET /api/insurance-providers
func (h *InsuranceHandler) ListInsuranceProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.insuranceRepo.ListActive(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"insurance_providers": providers,
		"count":               len(providers),
	})
}
