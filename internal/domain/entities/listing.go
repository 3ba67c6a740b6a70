package entities

import (
	"time"

	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

// Listing represents a therapy provider listing in the directory
type Listing struct {
	ID                string           `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Slug              string           `json:"slug" db:"slug"`
	Description       string           `json:"description" db:"description"`
	Address           Address          `json:"address" db:"-"`
	Location          *geo.Coordinates `json:"location,omitempty" db:"-"`
	PhoneNumber       string           `json:"phone_number" db:"phone_number"`
	Email             string           `json:"email" db:"email"`
	Website           string           `json:"website" db:"website"`
	AcceptedInsurance []string         `json:"accepted_insurance" db:"-"`
	ServiceModes      []string         `json:"service_modes" db:"-"`
	PlanTier          string           `json:"plan_tier" db:"plan_tier"`
	IsActive          bool             `json:"is_active" db:"is_active"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// Service mode values accepted by the serviceMode facet.
const (
	ServiceModeInHome      = "IN_HOME"
	ServiceModeInClinic    = "IN_CLINIC"
	ServiceModeTelehealth  = "TELEHEALTH"
	ServiceModeSchoolBased = "SCHOOL_BASED"
)
