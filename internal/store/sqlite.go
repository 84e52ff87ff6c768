package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"armoryhub/pkg/database"
	"armoryhub/pkg/models"
)

// SQLite keeps the snapshot in the weapons table, ordered by position.
type SQLite struct {
	DB *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("store: missing sqlite path")
	}
	db, err := database.Open(database.Config{Path: path})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return &SQLite{DB: db}, nil
}

// ReplaceAll deletes every row and inserts weapons in one transaction.
func (s *SQLite) ReplaceAll(ctx context.Context, weapons []models.Weapon) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weapons`); err != nil {
		return fmt.Errorf("clear weapons: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weapons (position, id, name, description, country, year, class, calibre, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, w := range weapons {
		var image sql.NullString
		if w.ImageURL != nil {
			image = sql.NullString{String: *w.ImageURL, Valid: true}
		}
		if _, err := stmt.ExecContext(
			ctx,
			i,
			w.ID,
			w.Name,
			w.Description,
			w.Country,
			w.Year,
			w.Class,
			w.Calibre,
			image,
		); err != nil {
			return fmt.Errorf("exec insert for %s: %w", w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLite) LoadAll(ctx context.Context) ([]models.Weapon, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, description, country, year, class, calibre, image_url
		FROM weapons
		ORDER BY position ASC
	`)
	if err != nil {
		return []models.Weapon{}, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := []models.Weapon{}
	for rows.Next() {
		var (
			w     models.Weapon
			image sql.NullString
		)
		if err := rows.Scan(
			&w.ID, &w.Name, &w.Description, &w.Country, &w.Year, &w.Class, &w.Calibre, &image,
		); err != nil {
			return []models.Weapon{}, fmt.Errorf("list scan: %w", err)
		}
		if image.Valid {
			w.ImageURL = models.StringPtr(image.String)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return []models.Weapon{}, fmt.Errorf("rows err: %w", err)
	}
	return models.BackfillAll(out), nil
}

func (s *SQLite) Close() error { return s.DB.Close() }
