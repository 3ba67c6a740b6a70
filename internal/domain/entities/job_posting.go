package entities

import (
	"time"

	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// JobPosting represents a published job opening attached to a provider
// listing
type JobPosting struct {
	ID             string           `json:"id" db:"id"`
	ListingID      string           `json:"listing_id" db:"listing_id"`
	Title          string           `json:"title" db:"title"`
	Description    string           `json:"description" db:"description"`
	PositionType   string           `json:"position_type" db:"position_type"`
	EmploymentType string           `json:"employment_type" db:"employment_type"`
	Remote         bool             `json:"remote" db:"remote"`
	ServiceModes   []string         `json:"service_modes" db:"-"`
	City           string           `json:"city" db:"city"`
	State          string           `json:"state" db:"state"`
	ZipCode        string           `json:"zip_code" db:"zip_code"`
	Location       *geo.Coordinates `json:"location,omitempty" db:"-"`
	SalaryMin      *float64         `json:"salary_min,omitempty" db:"salary_min"`
	SalaryMax      *float64         `json:"salary_max,omitempty" db:"salary_max"`
	IsActive       bool             `json:"is_active" db:"is_active"`
	PostedAt       time.Time        `json:"posted_at" db:"posted_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// Position type values accepted by the positionType facet.
const (
	PositionBCBA             = "BCBA"
	PositionBCaBA            = "BCaBA"
	PositionRBT              = "RBT"
	PositionBT               = "BT"
	PositionClinicalDirector = "ClinicalDirector"
	PositionOther            = "OTHER"
)

// Employment type values accepted by the employmentType facet.
const (
	EmploymentFullTime = "FULL_TIME"
	EmploymentPartTime = "PART_TIME"
	EmploymentContract = "CONTRACT"
	EmploymentPerDiem  = "PER_DIEM"
)
