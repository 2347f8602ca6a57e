package dashboard

import (
	"embed"
	"html/template"
)

const pageTitle = "Smart Irrigation Dashboard"

//go:embed web/index.html
var webFS embed.FS

type pageData struct {
	Title string
}

func mustParsePage() *template.Template {
	return template.Must(template.ParseFS(webFS, "web/index.html"))
}
