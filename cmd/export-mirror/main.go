package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	"armoryhub/pkg/models"
	"armoryhub/pkg/utils"
)

// Renders the current snapshot (or the seed data) as a wikitable page
// that mirror-server can serve as an offline source.
func main() {
	var (
		outPath = flag.String("out", "data/mirror.html", "output HTML path")
		seed    = flag.Bool("seed", false, "render the built-in seed data instead of the store")
	)
	flag.Parse()

	var items []models.Weapon
	if *seed {
		items = scraper.SeedData()
	} else {
		cfg, err := utils.LoadConfig()
		if err != nil {
			log.Fatalf("load config: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		st, err := store.Open(cfg.Store)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()

		if items, err = st.LoadAll(ctx); err != nil {
			log.Fatalf("load snapshot: %v", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("create failed: %v", err)
	}
	defer f.Close()

	if err := scraper.RenderWikiTable(f, "List of firearms", items); err != nil {
		log.Fatalf("render failed: %v", err)
	}
	log.Printf("✅ exported %d weapons to %s", len(items), *outPath)
}
