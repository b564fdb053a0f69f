package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/gateway"
)

// maxSubscribeBody bounds the subscribe request body.
const maxSubscribeBody = 64 << 10

type subscribeRequest struct {
	Email string `json:"email"`
}

// subscribe handles POST /api/subscribe.
func (s *Server) subscribe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubscribeBody)

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, err := s.newsletter.Subscribe(c.Request.Context(), req.Email)
	switch {
	case domain.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErrorMessage(err)})
		return
	case err != nil:
		s.log.Errorw("subscription error", "err", err, requestIDKey, c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send confirmation email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscription successful",
		"id":      id,
	})
}

// inputErrorMessage maps a subscriber validation error to its response text.
func inputErrorMessage(err error) string {
	if errors.Is(err, domain.ErrEmailRequired) {
		return "Email is required"
	}
	return "Invalid email format"
}

// githubStats handles GET /api/github-stats.
func (s *Server) githubStats(c *gin.Context) {
	stats, err := s.stats.RepoStats(c.Request.Context())
	if err != nil {
		s.log.Errorw("error fetching GitHub stats", "err", err, requestIDKey, c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch GitHub stats",
			"message": err.Error(),
		})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, stats)
}

// githubOverview handles GET /api/github-overview.
func (s *Server) githubOverview(c *gin.Context) {
	overview, err := s.stats.Overview(c.Request.Context())
	switch {
	case errors.Is(err, gateway.ErrTokenRequired):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "GitHub overview unavailable",
			"message": "GitHub token not configured",
		})
		return
	case err != nil:
		s.log.Errorw("error fetching GitHub overview", "err", err, requestIDKey, c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch GitHub overview",
			"message": err.Error(),
		})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, overview)
}
