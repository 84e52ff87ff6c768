package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"armoryhub/internal/refresh"
	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	"armoryhub/pkg/utils"
)

// Runs one refresh against the configured sources and store, then exits.
func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	sources := make([]scraper.Source, 0, len(cfg.Sources))
	for _, u := range cfg.Sources {
		sources = append(sources, scraper.NewWikiTableSource(u, cfg.FetchTimeout))
	}

	r := refresh.New(scraper.NewAggregator(logger, sources...), st, nil, logger)
	res, err := r.Run(ctx, refresh.TriggerManual)
	if err != nil {
		log.Fatalf("refresh failed: %v", err)
	}

	for _, src := range res.Sources {
		if src.Error != "" {
			log.Printf("  %s: failed: %s", src.Source, src.Error)
			continue
		}
		log.Printf("  %s: %d items", src.Source, src.Count)
	}
	if res.UsedSeed {
		log.Printf("no rows scraped, seed data written")
	}
	log.Printf("✅ saved %d weapons to %s", res.Count, cfg.Store.Path)
}
