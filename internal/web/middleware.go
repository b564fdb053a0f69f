package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pebbling-ai/pebbling-site/internal/config"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	// sessionCookie is set by the hosted authentication widget.
	sessionCookie = "__session"
)

// RequestID tags every request with an id, reusing a well-formed incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs one line per request after it has been served.
func AccessLog(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			requestIDKey, c.GetString(requestIDKey))
	}
}

// Recovery turns panics into a JSON 500 so no request dies without an answer.
func Recovery(log *zap.SugaredLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorw("panic while serving request",
			"path", c.Request.URL.Path,
			"panic", recovered,
			requestIDKey, c.GetString(requestIDKey))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// RouteGate keeps unauthenticated visitors off non-public paths.
//
//   - config.GateOff lets everything through.
//   - config.GateRedirect sends visitors to /sign-in, remembering where they were going.
//   - config.GateReject answers 401.
//
// Authentication itself belongs to the hosted widget; a request counts as
// authenticated when it carries the widget's session cookie or a bearer token.
func RouteGate(mode string, publicPaths []string) gin.HandlerFunc {
	if mode == "" || mode == config.GateOff {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path, publicPaths) || isAuthenticated(c.Request) {
			c.Next()
			return
		}
		if mode == config.GateRedirect {
			target := "/sign-in?redirect_url=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

// isPublicPath matches path against the allow-list. "/" matches only the
// root, entries ending in "/" match as prefixes, anything else matches
// itself and its sub-paths.
func isPublicPath(path string, publicPaths []string) bool {
	for _, p := range publicPaths {
		switch {
		case p == "/":
			if path == "/" {
				return true
			}
		case strings.HasSuffix(p, "/"):
			if strings.HasPrefix(path, p) {
				return true
			}
		case path == p || strings.HasPrefix(path, p+"/"):
			return true
		}
	}
	return false
}

func isAuthenticated(r *http.Request) bool {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && len(auth) > len("Bearer ")
}
