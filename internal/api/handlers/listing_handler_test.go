package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hashemselim/findabatherapy/internal/api/handlers"
	"github.com/Hashemselim/findabatherapy/internal/application/services"
	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	apperrors "github.com/Hashemselim/findabatherapy/pkg/errors"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) GetBySlug(ctx context.Context, slug string) (*entities.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *entities.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) List(ctx context.Context, limit, offset int) ([]*entities.Listing, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) FindCandidates(ctx context.Context, query repositories.CandidateQuery) ([]*entities.Listing, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func newListingHandler(repo repositories.ListingRepository) *handlers.ListingHandler {
	searchService := services.NewListingSearchService(repo, nil, nil)
	filterService := services.NewFilterService(nil, nil, 20, 100)
	return handlers.NewListingHandler(repo, searchService, filterService, nil, nil)
}

func TestGetListingBySlug(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("GetBySlug", mock.Anything, "bluebonnet-aba").Return(&entities.Listing{
		ID:   "0d4cfe4e-9f33-4e0b-8f0e-7a1c9a0b1234",
		Name: "Bluebonnet ABA",
		Slug: "bluebonnet-aba",
	}, nil)

	handler := newListingHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/bluebonnet-aba", nil)
	req.SetPathValue("id", "bluebonnet-aba")
	rec := httptest.NewRecorder()
	handler.GetListing(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "GetByID")

	var listing entities.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, "Bluebonnet ABA", listing.Name)
}

func TestGetListingByID(t *testing.T) {
	id := "0d4cfe4e-9f33-4e0b-8f0e-7a1c9a0b1234"
	repo := new(MockListingRepository)
	repo.On("GetByID", mock.Anything, id).Return(&entities.Listing{ID: id, Name: "Bluebonnet ABA"}, nil)

	handler := newListingHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.GetListing(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "GetBySlug")
}

func TestGetListingNotFound(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("GetBySlug", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("listing with slug missing not found"))

	handler := newListingHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handler.GetListing(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateListingValidation(t *testing.T) {
	repo := new(MockListingRepository)
	handler := newListingHandler(repo)

	body := strings.NewReader(`{"name": "Bluebonnet ABA"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	rec := httptest.NewRecorder()
	handler.CreateListing(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateListingSlugAndInsurance(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(listing *entities.Listing) bool {
		return listing.Slug == "bluebonnet-aba-therapy" &&
			assert.ObjectsAreEqual([]string{"aetna", "bcbs"}, listing.AcceptedInsurance) &&
			listing.IsActive
	})).Return(nil)

	handler := newListingHandler(repo)

	body := strings.NewReader(`{
		"name": "Bluebonnet ABA  Therapy!",
		"city": "Austin",
		"state": "TX",
		"accepted_insurance": ["Aetna", " BCBS "]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	rec := httptest.NewRecorder()
	handler.CreateListing(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestSearchListingsRepositoryFailure(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("FindCandidates", mock.Anything, mock.Anything).Return(nil, apperrors.NewInternalError("db down", nil))

	handler := newListingHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/search", nil)
	rec := httptest.NewRecorder()
	handler.SearchListings(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
