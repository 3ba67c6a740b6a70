package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Hashemselim/findabatherapy/internal/adapters/database"
	"github.com/Hashemselim/findabatherapy/internal/adapters/search"
	"github.com/Hashemselim/findabatherapy/internal/domain/entities"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/typesense"
	"github.com/Hashemselim/findabatherapy/pkg/config"
	"github.com/Hashemselim/findabatherapy/pkg/geo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var indexRepo *search.TypesenseAdapter
	if err == nil {
		indexRepo = search.NewTypesenseAdapter(tsClient)
		if err := indexRepo.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
	}

	listingRepo := database.NewListingAdapter(pgClient)
	jobRepo := database.NewJobAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				job_postings,
				listings,
				insurance_providers,
				search_events
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now().UTC()

	// 1. Insurance carriers
	carriers := []struct {
		name string
		slug string
	}{
		{"Aetna", "aetna"},
		{"Blue Cross Blue Shield", "bcbs"},
		{"Cigna", "cigna"},
		{"UnitedHealthcare", "uhc"},
		{"Tricare", "tricare"},
		{"Medicaid", "medicaid"},
	}
	for _, c := range carriers {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO insurance_providers (id, name, slug, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, true, $4, $4)
			ON CONFLICT (slug) DO NOTHING
		`, uuid.NewString(), c.name, c.slug, now)
		if err != nil {
			log.Printf("Failed to seed carrier %s: %v", c.name, err)
		}
	}

	// 2. Provider listings
	listings := []*entities.Listing{
		{
			ID:          uuid.NewString(),
			Name:        "Bluebonnet Behavioral Health",
			Slug:        "bluebonnet-behavioral-health",
			Description: "Center-based and in-home ABA therapy for children ages 2-12.",
			Address: entities.Address{
				Street:  "1200 Barton Springs Rd",
				City:    "Austin",
				State:   "TX",
				ZipCode: "78704",
				Country: "USA",
			},
			Location:          &geo.Coordinates{Latitude: 30.2590, Longitude: -97.7550},
			PhoneNumber:       "512-555-0142",
			Email:             "intake@bluebonnetaba.example",
			Website:           "https://bluebonnetaba.example",
			AcceptedInsurance: []string{"aetna", "bcbs", "medicaid"},
			ServiceModes:      []string{entities.ServiceModeInClinic, entities.ServiceModeInHome},
			PlanTier:          "premium",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Hill Country Autism Services",
			Slug:        "hill-country-autism-services",
			Description: "Telehealth parent training and in-home early intervention across central Texas.",
			Address: entities.Address{
				Street:  "800 Main St",
				City:    "Round Rock",
				State:   "TX",
				ZipCode: "78664",
				Country: "USA",
			},
			Location:          &geo.Coordinates{Latitude: 30.5083, Longitude: -97.6789},
			PhoneNumber:       "512-555-0177",
			Email:             "hello@hillcountryautism.example",
			AcceptedInsurance: []string{"cigna", "uhc"},
			ServiceModes:      []string{entities.ServiceModeInHome, entities.ServiceModeTelehealth},
			PlanTier:          "basic",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Metroplex ABA Partners",
			Slug:        "metroplex-aba-partners",
			Description: "School-based and clinic ABA programs in the Dallas-Fort Worth area.",
			Address: entities.Address{
				Street:  "4500 Ross Ave",
				City:    "Dallas",
				State:   "TX",
				ZipCode: "75204",
				Country: "USA",
			},
			Location:          &geo.Coordinates{Latitude: 32.7767, Longitude: -96.7970},
			PhoneNumber:       "214-555-0100",
			Email:             "contact@metroplexaba.example",
			AcceptedInsurance: []string{"aetna", "tricare", "medicaid"},
			ServiceModes:      []string{entities.ServiceModeInClinic, entities.ServiceModeSchoolBased},
			PlanTier:          "premium",
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	for _, listing := range listings {
		if err := listingRepo.Create(ctx, listing); err != nil {
			log.Printf("Failed to create listing %s: %v", listing.Name, err)
			continue
		}
		if indexRepo != nil {
			if err := indexRepo.IndexListing(ctx, listing); err != nil {
				log.Printf("Failed to index listing %s: %v", listing.Name, err)
			}
		}
	}

	// 3. Job postings
	salary := func(v float64) *float64 { return &v }
	jobs := []*entities.JobPosting{
		{
			ID:             uuid.NewString(),
			ListingID:      listings[0].ID,
			Title:          "Board Certified Behavior Analyst (BCBA)",
			Description:    "Lead a caseload of 8-10 learners in our South Austin clinic.",
			PositionType:   entities.PositionBCBA,
			EmploymentType: entities.EmploymentFullTime,
			ServiceModes:   []string{entities.ServiceModeInClinic},
			City:           "Austin",
			State:          "TX",
			ZipCode:        "78704",
			Location:       listings[0].Location,
			SalaryMin:      salary(75000),
			SalaryMax:      salary(95000),
			IsActive:       true,
			PostedAt:       now.Add(-48 * time.Hour),
			UpdatedAt:      now.Add(-48 * time.Hour),
		},
		{
			ID:             uuid.NewString(),
			ListingID:      listings[1].ID,
			Title:          "Registered Behavior Technician (RBT)",
			Description:    "In-home sessions in Round Rock and Georgetown, mileage reimbursed.",
			PositionType:   entities.PositionRBT,
			EmploymentType: entities.EmploymentPartTime,
			ServiceModes:   []string{entities.ServiceModeInHome},
			City:           "Round Rock",
			State:          "TX",
			ZipCode:        "78664",
			Location:       listings[1].Location,
			SalaryMin:      salary(22),
			SalaryMax:      salary(28),
			IsActive:       true,
			PostedAt:       now.Add(-24 * time.Hour),
			UpdatedAt:      now.Add(-24 * time.Hour),
		},
		{
			ID:             uuid.NewString(),
			ListingID:      listings[2].ID,
			Title:          "Clinical Director",
			Description:    "Oversee clinical quality across three DFW locations.",
			PositionType:   entities.PositionClinicalDirector,
			EmploymentType: entities.EmploymentFullTime,
			ServiceModes:   []string{entities.ServiceModeInClinic, entities.ServiceModeSchoolBased},
			City:           "Dallas",
			State:          "TX",
			ZipCode:        "75204",
			Location:       listings[2].Location,
			SalaryMin:      salary(95000),
			SalaryMax:      salary(120000),
			IsActive:       true,
			PostedAt:       now.Add(-10 * 24 * time.Hour),
			UpdatedAt:      now.Add(-10 * 24 * time.Hour),
		},
		{
			ID:             uuid.NewString(),
			ListingID:      listings[1].ID,
			Title:          "Remote BCBA Supervisor",
			Description:    "Telehealth supervision for RBTs; fully remote within Texas.",
			PositionType:   entities.PositionBCBA,
			EmploymentType: entities.EmploymentContract,
			Remote:         true,
			ServiceModes:   []string{entities.ServiceModeTelehealth},
			City:           "Round Rock",
			State:          "TX",
			IsActive:       true,
			PostedAt:       now.Add(-5 * 24 * time.Hour),
			UpdatedAt:      now.Add(-5 * 24 * time.Hour),
		},
	}

	for _, job := range jobs {
		if err := jobRepo.Create(ctx, job); err != nil {
			log.Printf("Failed to create job %s: %v", job.Title, err)
			continue
		}
		if indexRepo != nil {
			if err := indexRepo.IndexJob(ctx, job); err != nil {
				log.Printf("Failed to index job %s: %v", job.Title, err)
			}
		}
	}

	log.Printf("Seeded %d carriers, %d listings, %d job postings", len(carriers), len(listings), len(jobs))
}
