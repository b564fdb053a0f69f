// Package web provides the HTTP server for the site: the landing and
// authentication pages, the JSON API and the decorative background.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pebbling-ai/pebbling-site/internal/config"
	"github.com/pebbling-ai/pebbling-site/internal/content"
	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/logging"
)

// StatsProvider supplies the open-source stats shown on the landing page.
type StatsProvider interface {
	RepoStats(ctx context.Context) (*domain.RepoStats, error)
	Overview(ctx context.Context) (*domain.RepoOverview, error)
}

// Subscriber handles newsletter sign-ups.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (string, error)
}

// Options are the dependencies of a Server.
type Options struct {
	Config     *config.Config
	Site       *content.Site
	Stats      StatsProvider
	Newsletter Subscriber
	Logger     *zap.SugaredLogger
}

// Server is the site's HTTP server.
type Server struct {
	Router     *gin.Engine
	cfg        *config.Config
	site       *content.Site
	stats      StatsProvider
	newsletter Subscriber
	log        *zap.SugaredLogger
}

// NewServer builds the router with all middleware and routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Site == nil || opts.Stats == nil || opts.Newsletter == nil {
		return nil, errors.New("web: config, site, stats and newsletter are required")
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(opts.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		Router:     router,
		cfg:        opts.Config,
		site:       opts.Site,
		stats:      opts.Stats,
		newsletter: opts.Newsletter,
		log:        logging.OrNop(opts.Logger),
	}

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	// SSL headers only when TLS terminates here rather than at a proxy.
	if opts.Config.Server.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	// Global middleware must be registered before any route.
	router.Use(
		RequestID(),
		AccessLog(s.log),
		Recovery(s.log),
		secure.New(secureConfig),
		RouteGate(opts.Config.Auth.Gate, opts.Config.Auth.PublicPaths),
	)

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.Router

	r.GET("/static/*filepath", staticHandler())
	r.GET("/healthz", s.healthz)
	r.GET("/background.svg", s.background)

	r.GET("/", s.landingPage)
	r.GET("/sign-in", s.authPage(signInPage))
	r.GET("/sign-in/*rest", s.authPage(signInPage))
	r.GET("/sign-up", s.authPage(signUpPage))
	r.GET("/sign-up/*rest", s.authPage(signUpPage))
	r.GET("/user-profile", s.authPage(userProfilePage))
	r.GET("/user-profile/*rest", s.authPage(userProfilePage))

	api := r.Group("/api")
	{
		api.POST("/subscribe", s.subscribe)
		api.GET("/github-stats", s.githubStats)
		api.GET("/github-overview", s.githubOverview)
	}

	if s.cfg.Analytics.Enabled() {
		proxy, err := newIngestProxy(s.cfg.Analytics.PostHogHost, s.cfg.Analytics.PostHogAssetsHost, s.log)
		if err != nil {
			s.log.Errorw("analytics proxy disabled", "err", err)
		} else {
			r.Any("/ingest/*path", gin.WrapH(proxy))
		}
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(s.notFound)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.Router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
