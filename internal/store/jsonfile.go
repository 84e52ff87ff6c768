package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"armoryhub/pkg/models"
)

const snapshotMode = 0o644

// JSONFile keeps the snapshot as one pretty-printed JSON array.
type JSONFile struct {
	Path string
}

// OpenJSONFile creates the file with an empty array when it does not exist.
func OpenJSONFile(path string) (*JSONFile, error) {
	if path == "" {
		return nil, errors.New("store: missing json path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	s := &JSONFile{Path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.ReplaceAll(context.Background(), nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *JSONFile) ReplaceAll(_ context.Context, weapons []models.Weapon) error {
	if weapons == nil {
		weapons = []models.Weapon{}
	}
	b, err := json.MarshalIndent(weapons, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// write beside the target, then rename over it
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Chmod(snapshotMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *JSONFile) LoadAll(context.Context) ([]models.Weapon, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return []models.Weapon{}, fmt.Errorf("read snapshot: %w", err)
	}

	var weapons []models.Weapon
	if err := json.Unmarshal(b, &weapons); err != nil {
		return []models.Weapon{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if weapons == nil {
		weapons = []models.Weapon{}
	}
	return models.BackfillAll(weapons), nil
}

func (s *JSONFile) Close() error { return nil }
