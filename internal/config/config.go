// Package config loads the site configuration from an optional YAML file
// and the process environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Gate modes for the route gating middleware.
const (
	GateOff      = "off"
	GateRedirect = "redirect"
	GateReject   = "reject"
)

// Config holds all site configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	GitHub    GitHubConfig    `yaml:"github"`
	Email     EmailConfig     `yaml:"email"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	SSL            bool          `yaml:"ssl"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// GitHubConfig identifies the repository whose stats are shown.
type GitHubConfig struct {
	Owner   string        `yaml:"owner"`
	Repo    string        `yaml:"repo"`
	Token   string        `yaml:"token"`
	BaseURL string        `yaml:"base_url"` // empty means api.github.com
	Timeout time.Duration `yaml:"timeout"`
}

// RepoURL is the public web address of the repository.
func (g GitHubConfig) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", g.Owner, g.Repo)
}

// EmailConfig configures the transactional email provider.
type EmailConfig struct {
	APIKey  string        `yaml:"api_key"`
	From    string        `yaml:"from"`
	Subject string        `yaml:"subject"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AnalyticsConfig configures the client-side analytics snippet and its proxy.
type AnalyticsConfig struct {
	PostHogKey        string `yaml:"posthog_key"`
	PostHogHost       string `yaml:"posthog_host"`
	PostHogAssetsHost string `yaml:"posthog_assets_host"`
}

// Enabled reports whether analytics should be injected and proxied.
func (a AnalyticsConfig) Enabled() bool {
	return a.PostHogKey != ""
}

// AuthConfig configures the hosted authentication widget and route gating.
type AuthConfig struct {
	ClerkPublishableKey string   `yaml:"clerk_publishable_key"`
	Gate                string   `yaml:"gate"`
	PublicPaths         []string `yaml:"public_paths"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Env     string `yaml:"env"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":3000",
			TrustedProxies: []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		GitHub: GitHubConfig{
			Owner:   "Pebbling-ai",
			Repo:    "pebble",
			Timeout: 20 * time.Second,
		},
		Email: EmailConfig{
			From:    "Pebbling AI <newsletter@pebbling.ai>",
			Subject: "Welcome to Pebbling AI Newsletter",
			BaseURL: "https://api.resend.com",
			Timeout: 20 * time.Second,
		},
		Analytics: AnalyticsConfig{
			PostHogHost:       "https://us.i.posthog.com",
			PostHogAssetsHost: "https://us-assets.i.posthog.com",
		},
		Auth: AuthConfig{
			Gate: GateOff,
			PublicPaths: []string{
				"/",
				"/sign-in",
				"/sign-up",
				"/healthz",
				"/background.svg",
				"/static/",
				"/ingest/",
				"/api/subscribe",
				"/api/github-stats",
				"/api/github-overview",
			},
		},
		Log: LogConfig{Env: "dev"},
	}
}

// Load reads the YAML file at path (if path is non-empty) on top of the
// defaults and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides secrets and deployment knobs from the environment.
// lookup has the signature of os.LookupEnv so tests can inject values.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Server.Addr, "ADDR")
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	set(&c.GitHub.Token, "GITHUB_PAT", "GITHUB_TOKEN")
	set(&c.Email.APIKey, "RESEND_API_KEY")
	set(&c.Analytics.PostHogKey, "POSTHOG_KEY", "NEXT_PUBLIC_POSTHOG_KEY")
	set(&c.Auth.ClerkPublishableKey, "CLERK_PUBLISHABLE_KEY", "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY")
	set(&c.Auth.Gate, "AUTH_GATE")
	set(&c.Log.Env, "ENV")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("github.owner and github.repo are required")
	}
	switch strings.ToLower(c.Auth.Gate) {
	case GateOff, GateRedirect, GateReject:
		c.Auth.Gate = strings.ToLower(c.Auth.Gate)
	case "":
		c.Auth.Gate = GateOff
	default:
		return fmt.Errorf("unknown auth.gate %q (want off, redirect or reject)", c.Auth.Gate)
	}
	return nil
}
