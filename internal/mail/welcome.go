// Package mail renders the transactional email bodies sent by the site.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

// WelcomeData fills the newsletter welcome message.
type WelcomeData struct {
	Brand   string
	Email   string
	SiteURL string
}

// RenderWelcome returns the HTML body of the newsletter welcome message.
// The subscriber address is HTML-escaped.
func RenderWelcome(data WelcomeData) (string, error) {
	if data.Brand == "" {
		data.Brand = "Pebbling AI"
	}
	if data.SiteURL == "" {
		data.SiteURL = "https://pebbling.ai"
	}
	var buf bytes.Buffer
	if err := welcomeTemplate.ExecuteTemplate(&buf, "welcome.html", data); err != nil {
		return "", fmt.Errorf("failed to render welcome email: %w", err)
	}
	return buf.String(), nil
}
