package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionSchemas(t *testing.T) {
	jobs := jobsSchema()
	assert.Equal(t, "job_postings", jobs.Name)
	assert.Equal(t, "posted_at", *jobs.DefaultSortingField)

	listings := listingsSchema()
	assert.Equal(t, "listings", listings.Name)
	assert.Equal(t, "updated_at", *listings.DefaultSortingField)

	var jobFields []string
	for _, f := range jobs.Fields {
		jobFields = append(jobFields, f.Name)
	}
	assert.Contains(t, jobFields, "title")
	assert.Contains(t, jobFields, "description")

	var listingFields []string
	for _, f := range listings.Fields {
		listingFields = append(listingFields, f.Name)
	}
	assert.Contains(t, listingFields, "name")
}
