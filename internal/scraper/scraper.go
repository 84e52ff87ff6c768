package scraper

import (
	"context"
	"log/slog"
	"strings"

	"armoryhub/pkg/models"
)

// Source is implemented by each remote document the pipeline reads from.
// A source fetches its own document and maps it into models.Weapon.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Weapon, error)
}

// SourceReport is the outcome of one source during a build.
type SourceReport struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Dataset is the result of Aggregator.BuildDataset.
type Dataset struct {
	Weapons  []models.Weapon `json:"-"`
	Reports  []SourceReport  `json:"reports"`
	UsedSeed bool            `json:"used_seed"`
}

// Aggregator calls every source in order and merges the results into a
// single deduplicated dataset, falling back to Seed when nothing came back.
type Aggregator struct {
	Sources []Source
	Seed    func() []models.Weapon
	Logger  *slog.Logger
}

// NewAggregator creates an Aggregator over sources with the built-in seed.
func NewAggregator(logger *slog.Logger, sources ...Source) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{Sources: sources, Seed: SeedData, Logger: logger}
}

// BuildDataset fetches from all sources sequentially. A failing source is
// logged and recorded in the reports; it never stops the others.
func (a *Aggregator) BuildDataset(ctx context.Context) Dataset {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		all     []models.Weapon
		reports = make([]SourceReport, 0, len(a.Sources))
	)
	for _, src := range a.Sources {
		logger.Info("[scraper] fetching", "source", src.Name())
		weapons, err := src.FetchAll(ctx)
		if err != nil {
			logger.Error("[scraper] source failed", "source", src.Name(), "error", err)
			reports = append(reports, SourceReport{Source: src.Name(), Error: err.Error()})
			continue
		}
		logger.Info("[scraper] source done", "source", src.Name(), "items", len(weapons))
		reports = append(reports, SourceReport{Source: src.Name(), Count: len(weapons)})
		all = append(all, weapons...)
	}

	if len(all) == 0 {
		logger.Warn("[scraper] all sources failed, using seed data")
		var seed []models.Weapon
		if a.Seed != nil {
			seed = a.Seed()
		}
		return Dataset{Weapons: seed, Reports: reports, UsedSeed: true}
	}

	unique := Dedupe(all)
	logger.Info("[scraper] complete", "unique", len(unique), "total", len(all))
	return Dataset{Weapons: unique, Reports: reports}
}

// Dedupe keeps the first record for each id, preserving order.
func Dedupe(weapons []models.Weapon) []models.Weapon {
	seen := make(map[string]struct{}, len(weapons))
	out := make([]models.Weapon, 0, len(weapons))
	for _, w := range weapons {
		if _, ok := seen[w.ID]; ok {
			continue
		}
		seen[w.ID] = struct{}{}
		out = append(out, w)
	}
	return out
}

// DeriveID converts a name to its canonical id: lowercase, every run of
// characters outside [a-z0-9] becomes a single '-', trailing '-' removed.
func DeriveID(name string) string {
	s := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(s))

	prevSep := false
	for _, r := range s {
		if isIDRune(r) {
			b.WriteRune(r)
			prevSep = false
			continue
		}
		if !prevSep {
			b.WriteByte('-')
			prevSep = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func isIDRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}
