package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"armoryhub/pkg/models"
)

var bWeapons = []byte("weapons")

// Bolt keeps the snapshot in one bucket keyed by big-endian position.
type Bolt struct {
	db *bolt.DB
}

func OpenBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("store: missing bolt path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	return &Bolt{db: db}, nil
}

// ReplaceAll drops and rebuilds the bucket inside one update.
func (s *Bolt) ReplaceAll(_ context.Context, weapons []models.Weapon) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bWeapons); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("drop bucket: %w", err)
		}
		b, err := tx.CreateBucket(bWeapons)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		for i, w := range weapons {
			v, err := json.Marshal(w)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", w.ID, err)
			}
			if err := b.Put(positionKey(i), v); err != nil {
				return fmt.Errorf("put %s: %w", w.ID, err)
			}
		}
		return nil
	})
}

func (s *Bolt) LoadAll(context.Context) ([]models.Weapon, error) {
	out := []models.Weapon{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bWeapons)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var w models.Weapon
			if err := json.Unmarshal(v, &w); err != nil {
				return err
			}
			out = append(out, w)
			return nil
		})
	})
	if err != nil {
		return []models.Weapon{}, fmt.Errorf("read snapshot: %w", err)
	}
	return models.BackfillAll(out), nil
}

func (s *Bolt) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func positionKey(i int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(i))
	return k
}
