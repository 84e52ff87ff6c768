package weapons

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"armoryhub/pkg/models"
)

var csvHeader = []string{"id", "name", "description", "country", "year", "class", "calibre", "image_url"}

// WriteCSV writes a header row followed by one row per weapon.
func WriteCSV(w io.Writer, ws []models.Weapon) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range ws {
		if err := cw.Write([]string{
			item.ID,
			item.Name,
			item.Description,
			item.Country,
			item.Year,
			item.Class,
			item.Calibre,
			item.ImageOf(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows written by WriteCSV. Columns are matched by header
// name; only "name" is required. Missing ids are derived by derive and
// empty optional fields are backfilled.
func ReadCSV(r io.Reader, derive func(string) string) ([]models.Weapon, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, errors.New("csv: missing name column")
	}

	out := []models.Weapon{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		w := models.Weapon{
			ID:          get("id"),
			Name:        get("name"),
			Description: get("description"),
			Country:     get("country"),
			Year:        get("year"),
			Class:       get("class"),
			Calibre:     get("calibre"),
			ImageURL:    models.StringPtr(get("image_url")),
		}
		if w.Name == "" {
			continue
		}
		if w.ID == "" && derive != nil {
			w.ID = derive(w.Name)
		}
		out = append(out, w.Backfill())
	}
	return out, nil
}
