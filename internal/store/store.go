// Package store persists the full weapon dataset as a single snapshot.
//
// Every backend replaces the whole snapshot on write. Readers never see a
// partially written snapshot.
package store

import (
	"context"
	"errors"
	"fmt"

	"armoryhub/pkg/models"
)

// ErrUnknownDriver is returned by Open for a driver it does not know.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Store is the snapshot abstraction used by the refresher and the query
// service.
type Store interface {
	// ReplaceAll overwrites the snapshot with weapons.
	ReplaceAll(ctx context.Context, weapons []models.Weapon) error
	// LoadAll returns the current snapshot. The slice is never nil; on
	// failure it is empty and err says why.
	LoadAll(ctx context.Context) ([]models.Weapon, error)
	Close() error
}

// Store drivers accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config selects a backend and where it keeps its data.
type Config struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Open returns the backend named by cfg.Driver. An empty driver is json.
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverJSON:
		return OpenJSONFile(cfg.Path)
	case DriverSQLite:
		return OpenSQLite(cfg.Path)
	case DriverBolt:
		return OpenBolt(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
