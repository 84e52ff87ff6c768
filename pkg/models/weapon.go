package models

// Placeholders written into optional fields the source table left empty.
const (
	DefaultDescription = "Military equipment"
	DefaultCountry     = "Unknown"
	DefaultYear        = "N/A"
	DefaultClass       = "Firearm"
	DefaultCalibre     = "Unknown"
)

// Weapon is the normalized record produced by the scraper and stored
// in the snapshot. Year is kept as free-form text ("c. 1942", "1990s").
type Weapon struct {
	ID          string  `json:"id"`          // derived from Name, see scraper.DeriveID
	Name        string  `json:"name"`        // first table cell, never empty
	Description string  `json:"description"` // second cell
	Country     string  `json:"country"`     // third cell
	Year        string  `json:"year"`        // fourth cell
	Class       string  `json:"class"`       // fifth cell
	Calibre     string  `json:"calibre"`     // sixth cell
	ImageURL    *string `json:"imageUrl"`    // null when the row has no image
}

// Backfill fills every empty optional field with its placeholder.
// Snapshots written before class/calibre existed are read through this
// so consumers always see the full schema.
func (w Weapon) Backfill() Weapon {
	w.Description = orDefault(w.Description, DefaultDescription)
	w.Country = orDefault(w.Country, DefaultCountry)
	w.Year = orDefault(w.Year, DefaultYear)
	w.Class = orDefault(w.Class, DefaultClass)
	w.Calibre = orDefault(w.Calibre, DefaultCalibre)
	if w.ImageURL != nil && *w.ImageURL == "" {
		w.ImageURL = nil
	}
	return w
}

// BackfillAll applies Backfill to every record in place and returns ws.
func BackfillAll(ws []Weapon) []Weapon {
	for i := range ws {
		ws[i] = ws[i].Backfill()
	}
	return ws
}

// ImageOf returns the image URL or "" when there is none.
func (w Weapon) ImageOf() string {
	if w.ImageURL == nil {
		return ""
	}
	return *w.ImageURL
}

// StringPtr returns nil for "", otherwise a pointer to a copy of s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
