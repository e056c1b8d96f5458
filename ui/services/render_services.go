package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"chartdesk/internal/i18n"
)

// Template names
const (
	PageTemplate    = "index.html"
	ResultsFragment = "fragments/results.html"
)

type RenderService struct {
	templates *template.Template
}

// FuncMap holds the helpers the templates use
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"md": func(s string) template.HTML {
			return template.HTML(i18n.Markdown(s))
		},
		"add": func(a, b int) int { return a + b },
		"join": strings.Join,
	}
}

// NewRenderService parses templates/*.html and templates/fragments/*.html
// from files. Fragment templates are named by their path below templates/.
func NewRenderService(files fs.FS) (*RenderService, error) {
	templatesFS, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	fragments, err := fs.Glob(templatesFS, "fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob fragment templates: %w", err)
	}

	templates := template.New("").Funcs(FuncMap())
	for _, file := range append(pages, fragments...) {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := templates.New(file).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}

	return &RenderService{templates: templates}, nil
}

// Render executes a template into a buffer so a failure never leaves a half
// written response
func (s *RenderService) Render(name string, data interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return &buf, nil
}
