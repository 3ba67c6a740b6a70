package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Hashemselim/findabatherapy/internal/application/services"
	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// JobHandler handles job posting HTTP requests
type JobHandler struct {
	jobRepo       repositories.JobRepository
	searchService *services.JobSearchService
	filterService *services.FilterService
	geocoder      *services.GeocodingService
	index         repositories.SearchIndexRepository
}

// NewJobHandler creates a new job handler
func NewJobHandler(
	jobRepo repositories.JobRepository,
	searchService *services.JobSearchService,
	filterService *services.FilterService,
	geocoder *services.GeocodingService,
	index repositories.SearchIndexRepository,
) *JobHandler {
	return &JobHandler{
		jobRepo:       jobRepo,
		searchService: searchService,
		filterService: filterService,
		geocoder:      geocoder,
		index:         index,
	}
}

// SearchJobs handles GET /api/jobs/search
func (h *JobHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	filters := h.filterService.Compile(r.Context(), r.URL.Query())

	page, err := h.searchService.Search(r.Context(), filters)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetJob handles GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		respondWithError(w, http.StatusBadRequest, "job ID is required")
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), jobID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, job)
}

type createJobRequest struct {
	ListingID      string   `json:"listing_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PositionType   string   `json:"position_type"`
	EmploymentType string   `json:"employment_type"`
	Remote         bool     `json:"remote"`
	ServiceModes   []string `json:"service_modes"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	SalaryMin      *float64 `json:"salary_min"`
	SalaryMax      *float64 `json:"salary_max"`
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ListingID == "" || req.Title == "" || req.PositionType == "" {
		respondWithError(w, http.StatusBadRequest, "listing_id, title and position_type are required")
		return
	}

	now := time.Now().UTC()
	job := &entities.JobPosting{
		ID:             uuid.NewString(),
		ListingID:      req.ListingID,
		Title:          req.Title,
		Description:    req.Description,
		PositionType:   req.PositionType,
		EmploymentType: req.EmploymentType,
		Remote:         req.Remote,
		ServiceModes:   req.ServiceModes,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		IsActive:       true,
		PostedAt:       now,
		UpdatedAt:      now,
	}

	job.Location = h.resolveJobLocation(r, &req)

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		respondWithAppError(w, err)
		return
	}

	if h.index != nil {
		if err := h.index.IndexJob(r.Context(), job); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("job_id", job.ID).Msg("failed to index job posting")
		}
	}

	respondWithJSON(w, http.StatusCreated, job)
}

// DeactivateJob handles DELETE /api/jobs/{id}
func (h *JobHandler) DeactivateJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		respondWithError(w, http.StatusBadRequest, "job ID is required")
		return
	}

	if err := h.jobRepo.Deactivate(r.Context(), jobID); err != nil {
		respondWithAppError(w, err)
		return
	}

	if h.index != nil {
		if err := h.index.DeleteJob(r.Context(), jobID); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("job_id", jobID).Msg("failed to remove job posting from index")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveJobLocation geocodes the posting's city/state or ZIP. A failed
// resolution leaves the posting without coordinates; it still matches
// facet and state searches.
func (h *JobHandler) resolveJobLocation(r *http.Request, req *createJobRequest) *geo.Coordinates {
	if h.geocoder == nil {
		return nil
	}

	resolved := h.geocoder.ResolveCityState(r.Context(), req.City, req.State)
	if resolved == nil && req.ZipCode != "" {
		resolved = h.geocoder.ResolveZip(r.Context(), req.ZipCode)
	}
	if resolved == nil {
		return nil
	}

	coords := resolved.Coordinates
	return &coords
}
