package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "Pebbling-ai", cfg.GitHub.Owner)
	assert.Equal(t, "pebble", cfg.GitHub.Repo)
	assert.Equal(t, "https://github.com/Pebbling-ai/pebble", cfg.GitHub.RepoURL())
	assert.Equal(t, GateOff, cfg.Auth.Gate)
	assert.False(t, cfg.Analytics.Enabled())
}

func TestApplyEnv(t *testing.T) {
	testCases := []struct {
		name   string
		env    map[string]string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "GITHUB_PAT wins over GITHUB_TOKEN",
			env:  map[string]string{"GITHUB_PAT": "pat", "GITHUB_TOKEN": "tok"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "pat", cfg.GitHub.Token)
			},
		},
		{
			name: "GITHUB_TOKEN used as fallback",
			env:  map[string]string{"GITHUB_TOKEN": "tok"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "tok", cfg.GitHub.Token)
			},
		},
		{
			name: "PORT overrides addr",
			env:  map[string]string{"PORT": "8080"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":8080", cfg.Server.Addr)
			},
		},
		{
			name: "secrets and analytics",
			env: map[string]string{
				"RESEND_API_KEY":          "re_123",
				"NEXT_PUBLIC_POSTHOG_KEY": "phc_abc",
				"CLERK_PUBLISHABLE_KEY":   "pk_test",
				"ENV":                     "prod",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "re_123", cfg.Email.APIKey)
				assert.Equal(t, "phc_abc", cfg.Analytics.PostHogKey)
				assert.True(t, cfg.Analytics.Enabled())
				assert.Equal(t, "pk_test", cfg.Auth.ClerkPublishableKey)
				assert.Equal(t, "prod", cfg.Log.Env)
			},
		},
		{
			name: "empty values are ignored",
			env:  map[string]string{"RESEND_API_KEY": ""},
			verify: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Email.APIKey)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.applyEnv(envFrom(tc.env))
			tc.verify(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Auth.Gate = "REDIRECT"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, GateRedirect, cfg.Auth.Gate)

	cfg.Auth.Gate = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, GateOff, cfg.Auth.Gate)

	cfg.Auth.Gate = "clerk"
	assert.ErrorContains(t, cfg.Validate(), "unknown auth.gate")

	cfg = Default()
	cfg.GitHub.Repo = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	t.Setenv("AUTH_GATE", "")
	t.Setenv("PORT", "")
	t.Setenv("ADDR", "")
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := `
server:
  addr: ":9090"
  read_timeout: 5s
github:
  owner: example
  repo: widget
auth:
  gate: reject
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "example", cfg.GitHub.Owner)
	assert.Equal(t, "widget", cfg.GitHub.Repo)
	assert.Equal(t, GateReject, cfg.Auth.Gate)
	// Untouched defaults survive.
	assert.Equal(t, "Pebbling AI <newsletter@pebbling.ai>", cfg.Email.From)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}
