// Package web holds the HTML views served by the gallery.
package web

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"temp": func(v float64) string { return formatFloat(v, "°C") },
	"pct":  func(v float64) string { return formatFloat(v, "%") },
	"hpa":  func(v float64) string { return formatFloat(v, " hPa") },
}

// Templates parses the embedded views. Names match the file names.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func formatFloat(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + unit
}
