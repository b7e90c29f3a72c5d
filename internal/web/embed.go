package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed static
var staticFiles embed.FS

//go:embed templates
var templateFiles embed.FS

// StaticFS is the embedded static file system with the "static/" prefix stripped.
var StaticFS fs.FS

// Templates is the compiled template set for all views.
var Templates *template.Template

func init() {
	var err error

	StaticFS, err = fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	Templates, err = template.New("").Funcs(template.FuncMap{
		"imageURL": imageURL,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		panic(err)
	}
}

// imageURL lets http(s) and inline image URLs through to an img src.
// html/template would otherwise rewrite data: URLs to "#ZgotmplZ".
func imageURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"),
		strings.HasPrefix(s, "data:image/"):
		return template.URL(s)
	default:
		return ""
	}
}
