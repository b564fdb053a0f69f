package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pebbling-ai/pebbling-site/internal/config"
	"github.com/pebbling-ai/pebbling-site/internal/content"
	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/gateway"
	"github.com/pebbling-ai/pebbling-site/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockStats struct {
	mock.Mock
}

func (m *mockStats) RepoStats(ctx context.Context) (*domain.RepoStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepoStats), args.Error(1)
}

func (m *mockStats) Overview(ctx context.Context) (*domain.RepoOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepoOverview), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email gateway.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

type testServer struct {
	*Server
	stats  *mockStats
	sender *mockSender
}

// newTestServer wires a Server around mocks. mutate, when non-nil, adjusts
// the default configuration first.
func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	site, err := content.Load()
	require.NoError(t, err)

	stats := &mockStats{}
	sender := &mockSender{}
	newsletter := usecase.NewNewsletter(sender, cfg.Email.From, cfg.Email.Subject, nil)

	s, err := NewServer(Options{
		Config:     cfg,
		Site:       site,
		Stats:      stats,
		Newsletter: newsletter,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		stats.AssertExpectations(t)
		sender.AssertExpectations(t)
	})
	return &testServer{Server: s, stats: stats, sender: sender}
}

func (ts *testServer) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(Options{Config: config.Default()})
	assert.Error(t, err)
}

func TestNewServer_RejectsInvalidTrustedProxies(t *testing.T) {
	site, err := content.Load()
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Server.TrustedProxies = []string{"not-an-ip"}

	_, err = NewServer(Options{
		Config:     cfg,
		Site:       site,
		Stats:      &mockStats{},
		Newsletter: usecase.NewNewsletter(&mockSender{}, "", "", nil),
	})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/api/subscribe", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("api paths answer JSON", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
	})

	t.Run("pages answer HTML", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Page not found")
	})
}

func TestStaticAssets(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/static/site.css", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))

	w = ts.do(http.MethodGet, "/static/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/healthz", "", nil)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	const incoming = "6f1c1b1e-3a53-4c55-9b8e-5b0b7f0e2a10"
	w = ts.do(http.MethodGet, "/healthz", "", http.Header{requestIDHeader: {incoming}})
	assert.Equal(t, incoming, w.Header().Get(requestIDHeader))

	w = ts.do(http.MethodGet, "/healthz", "", http.Header{requestIDHeader: {"<script>"}})
	assert.NotEqual(t, "<script>", w.Header().Get(requestIDHeader))
}
