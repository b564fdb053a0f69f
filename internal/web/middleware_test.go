package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pebbling-ai/pebbling-site/internal/config"
)

func TestIsPublicPath(t *testing.T) {
	public := []string{"/", "/sign-in", "/static/", "/api/subscribe"}

	testCases := []struct {
		path     string
		expected bool
	}{
		{"/", true},
		{"/sign-in", true},
		{"/sign-in/factor-one", true},
		{"/sign-inx", false},
		{"/static/site.css", true},
		{"/static", false},
		{"/api/subscribe", true},
		{"/api/github-stats", false},
		{"/user-profile", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, isPublicPath(tc.path, public))
		})
	}
}

func TestRouteGate(t *testing.T) {
	testCases := []struct {
		name             string
		gate             string
		path             string
		header           http.Header
		expectedCode     int
		expectedLocation string
	}{
		{
			name:         "off lets everything through",
			gate:         config.GateOff,
			path:         "/user-profile",
			expectedCode: http.StatusOK,
		},
		{
			name:             "redirect sends visitors to sign-in",
			gate:             config.GateRedirect,
			path:             "/user-profile?tab=security",
			expectedCode:     http.StatusFound,
			expectedLocation: "/sign-in?redirect_url=%2Fuser-profile%3Ftab%3Dsecurity",
		},
		{
			name:         "redirect ignores public paths",
			gate:         config.GateRedirect,
			path:         "/sign-in",
			expectedCode: http.StatusOK,
		},
		{
			name:         "redirect passes session cookie holders",
			gate:         config.GateRedirect,
			path:         "/user-profile",
			header:       http.Header{"Cookie": {sessionCookie + "=abc"}},
			expectedCode: http.StatusOK,
		},
		{
			name:         "reject answers 401",
			gate:         config.GateReject,
			path:         "/user-profile",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "reject passes bearer tokens",
			gate:         config.GateReject,
			path:         "/user-profile",
			header:       http.Header{"Authorization": {"Bearer token"}},
			expectedCode: http.StatusOK,
		},
		{
			name:         "empty bearer is not a session",
			gate:         config.GateReject,
			path:         "/user-profile",
			header:       http.Header{"Authorization": {"Bearer "}},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, func(cfg *config.Config) {
				cfg.Auth.Gate = tc.gate
			})

			w := ts.do(http.MethodGet, tc.path, "", tc.header)

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, w.Header().Get("Location"))
			}
			if tc.expectedCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			}
		})
	}
}
