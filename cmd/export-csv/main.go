package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"armoryhub/internal/store"
	"armoryhub/internal/weapons"
	"armoryhub/pkg/utils"
)

// Writes the current snapshot of the configured store to a CSV file.
func main() {
	out := flag.String("out", "data/weapons.csv", "output CSV path")
	flag.Parse()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	items, err := st.LoadAll(ctx)
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	if err := weapons.WriteCSV(f, items); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("✅ exported %d weapons to %s", len(items), *out)
}
