package web

import (
	"bytes"
	"html/template"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pebbling-ai/pebbling-site/internal/content"
	"github.com/pebbling-ai/pebbling-site/internal/netsim"
)

const (
	defaultFrames = 180
	maxFrames     = 600
	frameInterval = 16 * time.Millisecond
	// backgroundStars is the number of faint specks behind the network.
	backgroundStars = 50
)

var templateFuncs = template.FuncMap{
	"markdown": func(m content.Markdown) template.HTML { return m.HTML() },
	"join":     strings.Join,
}

// pageData is what every page template receives.
type pageData struct {
	Site           *content.Site
	RepoURL        string
	PostHogKey     string
	PostHogEnabled bool
	ClerkKey       string
	Year           int

	Auth *authShell
}

func (s *Server) pageData() pageData {
	return pageData{
		Site:           s.site,
		RepoURL:        s.cfg.GitHub.RepoURL(),
		PostHogKey:     s.cfg.Analytics.PostHogKey,
		PostHogEnabled: s.cfg.Analytics.Enabled(),
		ClerkKey:       s.cfg.Auth.ClerkPublishableKey,
		Year:           time.Now().Year(),
	}
}

type authPageKind int

const (
	signInPage authPageKind = iota
	signUpPage
	userProfilePage
)

// authShell describes a page that mounts one of the hosted auth widgets.
type authShell struct {
	Title    string
	Heading  string
	Subtitle string
	// Mount is the widget's mount function in the provider's browser SDK.
	Mount string
	Path  string
}

var authShells = map[authPageKind]authShell{
	signInPage: {
		Title:    "Sign in",
		Heading:  "Sign in to your account",
		Subtitle: "Welcome back to Pebbling AI",
		Mount:    "mountSignIn",
		Path:     "/sign-in",
	},
	signUpPage: {
		Title:    "Sign up",
		Heading:  "Create your account",
		Subtitle: "Join Pebbling AI",
		Mount:    "mountSignUp",
		Path:     "/sign-up",
	},
	userProfilePage: {
		Title:    "Your profile",
		Heading:  "Your profile",
		Subtitle: "Manage your Pebbling AI account",
		Mount:    "mountUserProfile",
		Path:     "/user-profile",
	},
}

func (s *Server) landingPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.pageData())
}

func (s *Server) authPage(kind authPageKind) gin.HandlerFunc {
	shell := authShells[kind]
	return func(c *gin.Context) {
		data := s.pageData()
		data.Auth = &shell
		c.HTML(http.StatusOK, "auth.html", data)
	}
}

func (s *Server) notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.HTML(http.StatusNotFound, "notfound.html", s.pageData())
}

// background renders a snapshot of the decorative agent network.
// Query parameters: seed (int64), frames (simulated frames before the
// snapshot, capped at maxFrames) and mobile (bool).
func (s *Server) background(c *gin.Context) {
	seed := time.Now().UnixNano()
	if v := c.Query("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seed"})
			return
		}
		seed = parsed
	}

	frames := defaultFrames
	if v := c.Query("frames"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid frames"})
			return
		}
		frames = min(parsed, maxFrames)
	}
	mobile, _ := strconv.ParseBool(c.Query("mobile"))

	var buf bytes.Buffer
	summary, err := RenderBackground(&buf, seed, frames, mobile)
	if err != nil {
		s.log.Errorw("failed to render background", "err", err, "seed", seed)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	s.log.Debugw("rendered background", "seed", seed, "frames", frames,
		"agents", summary.Agents, "links", summary.Links, "messages", summary.Messages)

	c.Header("Cache-Control", "public, max-age=60")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// RenderBackground simulates frames of a fresh network seeded with seed
// and writes the final frame as SVG. It returns the final frame's summary.
func RenderBackground(w io.Writer, seed int64, frames int, mobile bool) (netsim.Summary, error) {
	rng := rand.New(rand.NewSource(seed))

	cfg := netsim.DefaultConfig()
	if mobile {
		cfg.Width, cfg.Height = 390, 844
		cfg.NumAgents = 20
	}
	network, err := netsim.New(cfg, rng)
	if err != nil {
		return netsim.Summary{}, err
	}
	field := netsim.NewParticleField(netsim.ParticleProfile(mobile, cfg.Width, cfg.Height), rng)

	network.Run(frames, frameInterval)
	for i := 0; i < frames; i++ {
		field.Step()
	}

	err = network.WriteSVG(w, netsim.SVGOptions{
		Stars:     backgroundStars,
		Particles: field,
	})
	return network.Summary(), err
}
