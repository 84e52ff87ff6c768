package weapons

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"armoryhub/internal/store"
	"armoryhub/pkg/models"
)

// ListLimit caps the result of an empty search.
const ListLimit = 50

var ErrNotFound = errors.New("weapon not found")

// Service answers queries against the current snapshot. Every call reloads
// the snapshot; nothing is cached between requests.
type Service struct {
	Store  store.Store
	Logger *slog.Logger
}

func NewService(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Store: s, Logger: logger}
}

// Search returns the first ListLimit weapons for an empty query, otherwise
// every weapon whose name, country or description contains q, ignoring case.
func (s *Service) Search(ctx context.Context, q string) []models.Weapon {
	all := s.load(ctx)

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		if len(all) > ListLimit {
			all = all[:ListLimit]
		}
		return all
	}

	out := make([]models.Weapon, 0)
	for _, w := range all {
		if matches(w, q) {
			out = append(out, w)
		}
	}
	return out
}

// Get looks a weapon up by id.
func (s *Service) Get(ctx context.Context, id string) (models.Weapon, error) {
	for _, w := range s.load(ctx) {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Weapon{}, ErrNotFound
}

// Count returns the number of weapons in the snapshot.
func (s *Service) Count(ctx context.Context) int {
	return len(s.load(ctx))
}

// load degrades to an empty dataset when the snapshot can not be read.
func (s *Service) load(ctx context.Context) []models.Weapon {
	all, err := s.Store.LoadAll(ctx)
	if err != nil {
		s.Logger.Warn("[weapons] snapshot unavailable, serving empty", "error", err)
		return []models.Weapon{}
	}
	return all
}

// matches expects q already lowercased.
func matches(w models.Weapon, q string) bool {
	return strings.Contains(strings.ToLower(w.Name), q) ||
		strings.Contains(strings.ToLower(w.Country), q) ||
		strings.Contains(strings.ToLower(w.Description), q)
}
