// Package content holds the landing page copy. The copy is kept in an
// embedded YAML document; prose fields are Markdown.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

// Markdown is a prose field that renders to HTML.
type Markdown string

// Site is the full landing page copy.
type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`

	Hero struct {
		Prefix string   `yaml:"prefix"`
		Titles []string `yaml:"titles"`
		Body   Markdown `yaml:"body"`
	} `yaml:"hero"`

	Features struct {
		Heading string    `yaml:"heading"`
		Intro   Markdown  `yaml:"intro"`
		Items   []Feature `yaml:"items"`
	} `yaml:"features"`

	CTA Section `yaml:"cta"`

	OpenSource Section `yaml:"open_source"`

	Timeline struct {
		Heading string         `yaml:"heading"`
		Intro   Markdown       `yaml:"intro"`
		Items   []TimelineItem `yaml:"items"`
	} `yaml:"timeline"`

	Newsletter struct {
		Heading string   `yaml:"heading"`
		Body    Markdown `yaml:"body"`
		Consent string   `yaml:"consent"`
	} `yaml:"newsletter"`
}

// Section is a heading followed by prose.
type Section struct {
	Heading string   `yaml:"heading"`
	Body    Markdown `yaml:"body"`
}

// Feature is a single card of the feature grid.
type Feature struct {
	Title string   `yaml:"title"`
	Body  Markdown `yaml:"body"`
}

// TimelineItem is a changelog entry.
type TimelineItem struct {
	Title string    `yaml:"title"`
	Date  time.Time `yaml:"date"`
}

// DisplayDate formats the entry date as "Feb 20, 2025".
func (t TimelineItem) DisplayDate() string {
	return t.Date.Format("Jan 2, 2006")
}

// Load parses the embedded site copy. Timeline entries are sorted newest first.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes site copy from data.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if s.Title == "" {
		return nil, fmt.Errorf("site content has no title")
	}
	sort.SliceStable(s.Timeline.Items, func(i, j int) bool {
		return s.Timeline.Items[i].Date.After(s.Timeline.Items[j].Date)
	})
	return &s, nil
}

var md = goldmark.New()

// HTML renders m as HTML. Raw HTML in the source is not passed through.
func (m Markdown) HTML() template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(m), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(string(m)))
	}
	return template.HTML(buf.String())
}
