package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"armoryhub/pkg/models"
)

const (
	// DefaultUserAgent identifies the scraper to the wiki.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second

	tableRowSelector = "table.wikitable tr"
)

// ColumnMapper fills the optional fields of w from the data cells that
// follow the name cell. cells[0] is the second cell of the row.
type ColumnMapper func(w *models.Weapon, cells []string)

// PositionalColumns assigns cells by position: description, country,
// year, class, calibre. Missing or empty cells take the placeholder.
func PositionalColumns(w *models.Weapon, cells []string) {
	at := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	w.Description = at(0)
	w.Country = at(1)
	w.Year = at(2)
	w.Class = at(3)
	w.Calibre = at(4)
}

// WikiTableSource scrapes every row of every wikitable on one page.
type WikiTableSource struct {
	URL     string
	Client  *resty.Client
	Columns ColumnMapper
}

// NewWikiTableSource creates a source for url with the default user agent
// and the given timeout (DefaultTimeout when zero).
func NewWikiTableSource(url string, timeout time.Duration) *WikiTableSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetHeader("User-Agent", DefaultUserAgent)
	client.SetTimeout(timeout)

	return &WikiTableSource{
		URL:     url,
		Client:  client,
		Columns: PositionalColumns,
	}
}

func (s *WikiTableSource) Name() string { return s.URL }

// FetchAll downloads the page and extracts its table rows.
func (s *WikiTableSource) FetchAll(ctx context.Context) ([]models.Weapon, error) {
	res, err := s.Client.R().
		SetContext(ctx).
		Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("wikitable: request %s: %w", s.URL, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("wikitable: %s: status %d", s.URL, res.StatusCode())
	}

	weapons, err := Extract(bytes.NewReader(res.Body()), s.Columns)
	if err != nil {
		return nil, fmt.Errorf("wikitable: %s: %w", s.URL, err)
	}
	return weapons, nil
}

// Extract parses an HTML document and returns one record per qualifying
// table row in document order. Rows without td cells are headers; rows
// whose first cell is blank are dropped. A nil mapper means PositionalColumns.
func Extract(r io.Reader, columns ColumnMapper) ([]models.Weapon, error) {
	if columns == nil {
		columns = PositionalColumns
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []models.Weapon
	doc.Find(tableRowSelector).Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() == 0 {
			return
		}

		name := strings.TrimSpace(cols.First().Text())
		if name == "" {
			return
		}

		rest := make([]string, 0, cols.Length()-1)
		cols.Slice(1, goquery.ToEnd).Each(func(_ int, cell *goquery.Selection) {
			rest = append(rest, strings.TrimSpace(cell.Text()))
		})

		w := models.Weapon{
			ID:   DeriveID(name),
			Name: name,
		}
		columns(&w, rest)

		if img := row.Find("img").First(); img.Length() > 0 {
			w.ImageURL = models.StringPtr(NormalizeImageURL(img.AttrOr("src", "")))
		}

		out = append(out, w.Backfill())
	})
	return out, nil
}

// NormalizeImageURL turns a protocol-relative src into an https URL.
func NormalizeImageURL(src string) string {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
