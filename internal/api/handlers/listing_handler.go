package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hashemselim/findabatherapy/internal/application/services"
	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
)

// ListingHandler handles provider listing HTTP requests
type ListingHandler struct {
	listingRepo   repositories.ListingRepository
	searchService *services.ListingSearchService
	filterService *services.FilterService
	geocoder      *services.GeocodingService
	index         repositories.SearchIndexRepository
}

// NewListingHandler creates a new listing handler
func NewListingHandler(
	listingRepo repositories.ListingRepository,
	searchService *services.ListingSearchService,
	filterService *services.FilterService,
	geocoder *services.GeocodingService,
	index repositories.SearchIndexRepository,
) *ListingHandler {
	return &ListingHandler{
		listingRepo:   listingRepo,
		searchService: searchService,
		filterService: filterService,
		geocoder:      geocoder,
		index:         index,
	}
}

// SearchListings handles GET /api/listings/search
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	filters := h.filterService.Compile(r.Context(), r.URL.Query())

	page, err := h.searchService.Search(r.Context(), filters)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetListing handles GET /api/listings/{id}. Slugs are accepted in
// place of IDs so provider profile URLs stay readable.
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	var listing *entities.Listing
	var err error
	if _, parseErr := uuid.Parse(key); parseErr == nil {
		listing, err = h.listingRepo.GetByID(r.Context(), key)
	} else {
		listing, err = h.listingRepo.GetBySlug(r.Context(), key)
	}
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

type createListingRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Street            string   `json:"street"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	ZipCode           string   `json:"zip_code"`
	Country           string   `json:"country"`
	PhoneNumber       string   `json:"phone_number"`
	Email             string   `json:"email"`
	Website           string   `json:"website"`
	AcceptedInsurance []string `json:"accepted_insurance"`
	ServiceModes      []string `json:"service_modes"`
	PlanTier          string   `json:"plan_tier"`
}

// CreateListing handles POST /api/listings
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.City == "" || req.State == "" {
		respondWithError(w, http.StatusBadRequest, "name, city and state are required")
		return
	}

	now := time.Now().UTC()
	listing := &entities.Listing{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		Address: entities.Address{
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			ZipCode: req.ZipCode,
			Country: req.Country,
		},
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		Website:           req.Website,
		AcceptedInsurance: lowercaseSlugs(req.AcceptedInsurance),
		ServiceModes:      req.ServiceModes,
		PlanTier:          req.PlanTier,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if h.geocoder != nil {
		address := strings.TrimSpace(strings.Join([]string{req.Street, req.City, req.State, req.ZipCode}, " "))
		if resolved := h.geocoder.Resolve(r.Context(), address); resolved != nil {
			coords := resolved.Coordinates
			listing.Location = &coords
		}
	}

	if err := h.listingRepo.Create(r.Context(), listing); err != nil {
		respondWithAppError(w, err)
		return
	}

	if h.index != nil {
		if err := h.index.IndexListing(r.Context(), listing); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("listing_id", listing.ID).Msg("failed to index listing")
		}
	}

	respondWithJSON(w, http.StatusCreated, listing)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func lowercaseSlugs(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
