package scraper

import (
	"html/template"
	"io"

	"armoryhub/pkg/models"
)

var mirrorTpl = template.Must(template.New("mirror").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<table class="wikitable sortable">
<tr><th>Name</th><th>Description</th><th>Country</th><th>Year</th><th>Class</th><th>Calibre</th></tr>
{{- range .Weapons}}
<tr><td>{{.Name}}{{with .ImageOf}} <img src="{{.}}">{{end}}</td><td>{{.Description}}</td><td>{{.Country}}</td><td>{{.Year}}</td><td>{{.Class}}</td><td>{{.Calibre}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// RenderWikiTable writes weapons as a page with one wikitable laid out in
// the column order PositionalColumns expects, so the page can be served
// as a local source.
func RenderWikiTable(w io.Writer, title string, weapons []models.Weapon) error {
	return mirrorTpl.Execute(w, struct {
		Title   string
		Weapons []models.Weapon
	}{title, weapons})
}
