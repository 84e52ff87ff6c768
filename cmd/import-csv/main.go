package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	"armoryhub/internal/weapons"
	"armoryhub/pkg/utils"
)

// Replaces the snapshot of the configured store with the rows of a CSV
// file. Duplicate ids keep their first row.
func main() {
	in := flag.String("in", "data/weapons.csv", "input CSV path")
	flag.Parse()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	defer f.Close()

	items, err := weapons.ReadCSV(f, scraper.DeriveID)
	if err != nil {
		log.Fatalf("read csv: %v", err)
	}
	items = scraper.Dedupe(items)
	if len(items) == 0 {
		log.Fatalf("%s has no rows, refusing to empty the store", *in)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := st.ReplaceAll(ctx, items); err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("✅ imported %d weapons from %s", len(items), *in)
}
