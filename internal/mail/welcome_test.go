package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	html, err := RenderWelcome(WelcomeData{Email: "ada@pebbling.ai"})
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome to Pebbling AI Newsletter!")
	assert.Contains(t, html, "<strong>ada@pebbling.ai</strong>")
	assert.Contains(t, html, `href="https://pebbling.ai"`)
	assert.Contains(t, html, "safely ignore this email")
}

func TestRenderWelcome_EscapesAddress(t *testing.T) {
	html, err := RenderWelcome(WelcomeData{Email: `<script>x</script>@evil.io`, Brand: "Acme", SiteURL: "https://acme.test"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Visit Acme")
	assert.Contains(t, html, `href="https://acme.test"`)
}
