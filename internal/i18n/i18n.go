// Package i18n holds the English and Persian text tables of the UI and picks
// the locale for a request.
package i18n

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Texts is the string table of one locale. Values may contain {name}
// placeholders filled by Format.
type Texts struct {
	Lang          string `yaml:"lang"`
	Name          string `yaml:"name"`
	Dir           string `yaml:"dir"`
	Title         string `yaml:"title"`
	Upload        string `yaml:"upload"`
	SelectFile    string `yaml:"select_file"`
	UploadButton  string `yaml:"upload_button"`
	Success       string `yaml:"success"`
	Preview       string `yaml:"preview"`
	Rows          string `yaml:"rows"`
	Columns       string `yaml:"columns"`
	Describe      string `yaml:"describe"`
	Missing       string `yaml:"missing"`
	Unique        string `yaml:"unique"`
	Suggested     string `yaml:"suggested"`
	FallbackNote  string `yaml:"fallback_note"`
	Custom        string `yaml:"custom"`
	ChartType     string `yaml:"chart_type"`
	XAxis         string `yaml:"x_axis"`
	YAxis         string `yaml:"y_axis"`
	PieWarning    string `yaml:"pie_warning"`
	Filters       string `yaml:"filters"`
	NoFilters     string `yaml:"no_filters"`
	FilterColumns string `yaml:"filter_columns"`
	FilterValues  string `yaml:"filter_values"`
	Apply         string `yaml:"apply"`
	EmptyView     string `yaml:"empty_view"`
	ParseError    string `yaml:"parse_error"`
	ChartError    string `yaml:"chart_error"`
	ByTemplate    string `yaml:"by_template"`

	printer *message.Printer
}

// Format replaces {key} placeholders in s with the given values
func Format(s string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// Int formats n with the locale's digit grouping
func (t *Texts) Int(n int) string {
	return t.printer.Sprintf("%d", n)
}

// PieWarningFor fills the pie warning with the pie limit
func (t *Texts) PieWarningFor(limit int) string {
	return Format(t.PieWarning, map[string]string{"limit": t.Int(limit)})
}

// FallbackNoteFor fills the fallback note with the category limit
func (t *Texts) FallbackNoteFor(limit int) string {
	return Format(t.FallbackNote, map[string]string{"limit": t.Int(limit)})
}

// FilterValuesFor labels the value picker of one filter column
func (t *Texts) FilterValuesFor(column string) string {
	return Format(t.FilterValues, map[string]string{"column": column})
}

// ParseErrorFor renders a failed upload with its cause
func (t *Texts) ParseErrorFor(err error) string {
	return Format(t.ParseError, map[string]string{"error": err.Error()})
}

// Catalog holds every loaded locale
type Catalog struct {
	locales map[string]*Texts
	order   []string
	matcher language.Matcher
}

// Load parses the embedded locale tables. English is listed first and is the
// matcher's fallback.
func Load() (*Catalog, error) {
	c := &Catalog{locales: make(map[string]*Texts)}
	var tags []language.Tag
	for _, lang := range []string{"en", "fa"} {
		data, err := localeFS.ReadFile("locales/" + lang + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", lang, err)
		}
		var texts Texts
		if err := yaml.Unmarshal(data, &texts); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", lang, err)
		}
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid locale tag %s: %w", lang, err)
		}
		texts.printer = message.NewPrinter(tag)
		c.locales[lang] = &texts
		c.order = append(c.order, lang)
		tags = append(tags, tag)
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog of the embedded locales. The tables are part of
// the binary, so a load failure is a programming error.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Langs returns the locale codes in display order
func (c *Catalog) Langs() []string {
	return c.order
}

// Supported reports whether lang has a table
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.locales[lang]
	return ok
}

// Texts returns the table for lang, or English when lang is unknown
func (c *Catalog) Texts(lang string) *Texts {
	if t, ok := c.locales[lang]; ok {
		return t
	}
	return c.locales["en"]
}

// Match picks the locale from an explicit choice, then the Accept-Language
// header, then fallback
func (c *Catalog) Match(explicit, acceptLanguage, fallback string) string {
	if lang := strings.ToLower(strings.TrimSpace(explicit)); c.Supported(lang) {
		return lang
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, index, confidence := c.matcher.Match(tags...)
			if confidence != language.No {
				return c.order[index]
			}
		}
	}
	if c.Supported(fallback) {
		return fallback
	}
	return c.order[0]
}

// Markdown renders a short markdown string to HTML without the surrounding
// paragraph. Raw HTML in the input is dropped.
func Markdown(s string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	out := strings.TrimSpace(string(markdown.ToHTML([]byte(s), p, renderer)))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}
