package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.html
var EmbeddedTemplatesFS embed.FS

// pages rendered inside base.html
var pageTemplates = []string{"index.html", "update.html", "error.html"}

// Templates holds one parsed template set per page, each combined with base.html
type Templates struct {
	pages map[string]*template.Template
}

// templateFuncs returns sprig's HTML-safe function map plus our own helpers
func templateFuncs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["statusText"] = http.StatusText
	return funcs
}

// LoadTemplates parses the embedded templates once at startup
func LoadTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, page := range pageTemplates {
		tmpl, err := template.New("base.html").Funcs(templateFuncs()).ParseFS(EmbeddedTemplatesFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}
	return t, nil
}

// Execute renders page inside the base layout
func (t *Templates) Execute(w io.Writer, page string, data interface{}) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %s", page)
	}
	return tmpl.ExecuteTemplate(w, "base.html", data)
}
