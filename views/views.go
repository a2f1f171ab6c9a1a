package views

import (
	"embed"
	"html/template"
)

//go:embed templates
var files embed.FS

// Load parses every embedded page. Pages are addressed by their define name, e.g. "board/detail".
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		// board content is sanitized before it is stored
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(files, "templates/*.html", "templates/*/*.html")
}
