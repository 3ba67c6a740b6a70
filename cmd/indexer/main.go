package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/adapters/database"
	"github.com/Hashemselim/findabatherapy/internal/adapters/search"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/typesense"
	"github.com/Hashemselim/findabatherapy/pkg/config"
)

const indexBatchSize = 500

func main() {
	var intervalFlag string
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	indexRepo := search.NewTypesenseAdapter(tsClient)
	if err := indexRepo.InitSchema(ctx); err != nil {
		return err
	}

	jobRepo := database.NewJobAdapter(pgClient)
	listingRepo := database.NewListingAdapter(pgClient)

	indexed := 0
	for offset := 0; ; offset += indexBatchSize {
		jobs, err := jobRepo.List(ctx, indexBatchSize, offset)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			break
		}
		for _, job := range jobs {
			if err := indexRepo.IndexJob(ctx, job); err != nil {
				log.Printf("Warning: failed to index job %s: %v", job.ID, err)
				continue
			}
			indexed++
		}
	}
	log.Printf("Indexed %d job postings", indexed)

	indexed = 0
	for offset := 0; ; offset += indexBatchSize {
		listings, err := listingRepo.List(ctx, indexBatchSize, offset)
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			break
		}
		for _, listing := range listings {
			if err := indexRepo.IndexListing(ctx, listing); err != nil {
				log.Printf("Warning: failed to index listing %s: %v", listing.ID, err)
				continue
			}
			indexed++
		}
	}
	log.Printf("Indexed %d listings", indexed)

	return nil
}
