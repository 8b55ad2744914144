// Package web holds the embedded HTML templates of the landing site.
package web

import (
	"embed"
	"html/template"

	"tractionlab/api/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type distribution struct {
	Title string
	Rows  []models.ValueShare
}

var funcs = template.FuncMap{
	"dist": func(title string, rows []models.ValueShare) distribution {
		return distribution{Title: title, Rows: rows}
	},
}

// Templates parses every page template. It panics on a malformed template,
// which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
