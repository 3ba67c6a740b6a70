package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hashemselim/findabatherapy/internal/api/handlers"
	"github.com/Hashemselim/findabatherapy/internal/application/services"
	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	apperrors "github.com/Hashemselim/findabatherapy/pkg/errors"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *entities.JobPosting) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*entities.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.JobPosting), args.Error(1)
}

func (m *MockJobRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.JobPosting, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.JobPosting), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, job *entities.JobPosting) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) List(ctx context.Context, limit, offset int) ([]*entities.JobPosting, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.JobPosting), args.Error(1)
}

func (m *MockJobRepository) FindCandidates(ctx context.Context, query repositories.CandidateQuery) ([]*entities.JobPosting, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.JobPosting), args.Error(1)
}

func newJobHandler(repo repositories.JobRepository) *handlers.JobHandler {
	searchService := services.NewJobSearchService(repo, nil, nil)
	filterService := services.NewFilterService(nil, nil, 20, 100)
	return handlers.NewJobHandler(repo, searchService, filterService, nil, nil)
}

func TestSearchJobsReturnsPage(t *testing.T) {
	repo := new(MockJobRepository)
	postedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindCandidates", mock.Anything, mock.Anything).Return([]*entities.JobPosting{
		{
			ID:             "job-1",
			ListingID:      "listing-1",
			Title:          "BCBA",
			PositionType:   entities.PositionBCBA,
			EmploymentType: entities.EmploymentFullTime,
			Location:       &geo.Coordinates{Latitude: 30.2672, Longitude: -97.7431},
			IsActive:       true,
			PostedAt:       postedAt,
		},
	}, nil)

	handler := newJobHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/search?positionType=BCBA", nil)
	rec := httptest.NewRecorder()
	handler.SearchJobs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var page entities.SearchPage[*entities.JobPosting]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "job-1", page.Results[0].Record.ID)
}

func TestSearchJobsRepositoryFailure(t *testing.T) {
	repo := new(MockJobRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).Return(nil, apperrors.NewInternalError("db down", nil))

	handler := newJobHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/search", nil)
	rec := httptest.NewRecorder()
	handler.SearchJobs(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetJobNotFound(t *testing.T) {
	repo := new(MockJobRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("job posting with id missing not found"))

	handler := newJobHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handler.GetJob(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateJobValidation(t *testing.T) {
	repo := new(MockJobRepository)
	handler := newJobHandler(repo)

	body := strings.NewReader(`{"title": "BCBA"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", body)
	rec := httptest.NewRecorder()
	handler.CreateJob(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateJobPersists(t *testing.T) {
	repo := new(MockJobRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(job *entities.JobPosting) bool {
		return job.ID != "" && job.Title == "BCBA" && job.IsActive
	})).Return(nil)

	handler := newJobHandler(repo)

	body := strings.NewReader(`{
		"listing_id": "listing-1",
		"title": "BCBA",
		"position_type": "BCBA",
		"employment_type": "FULL_TIME",
		"city": "Austin",
		"state": "TX"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", body)
	rec := httptest.NewRecorder()
	handler.CreateJob(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeactivateJob(t *testing.T) {
	repo := new(MockJobRepository)
	repo.On("Deactivate", mock.Anything, "job-1").Return(nil)

	handler := newJobHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/job-1", nil)
	req.SetPathValue("id", "job-1")
	rec := httptest.NewRecorder()
	handler.DeactivateJob(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
