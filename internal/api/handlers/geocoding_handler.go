package handlers

import (
	"net/http"

	"github.com/Hashemselim/findabatherapy/internal/application/services"
)

// GeocodingHandler exposes the geocode resolver for map-pin placement
type GeocodingHandler struct {
	geocoder *services.GeocodingService
}

// NewGeocodingHandler creates a new geocoding handler
func NewGeocodingHandler(geocoder *services.GeocodingService) *GeocodingHandler {
	return &GeocodingHandler{geocoder: geocoder}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeocodingHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	resolved := h.geocoder.Resolve(r.Context(), address)
	if resolved == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"found": false,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"found":  true,
		"result": resolved,
	})
}
