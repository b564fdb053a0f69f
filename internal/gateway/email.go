package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pebbling-ai/pebbling-site/internal/logging"
)

// MockEmailID is the message id reported by MockSender.
const MockEmailID = "mock_email_id"

// Email is a single outgoing message.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// EmailSender dispatches transactional email and returns the provider's
// message identifier.
type EmailSender interface {
	Send(ctx context.Context, email Email) (string, error)
}

// ProviderError is a non-success answer from the email provider.
type ProviderError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider error %d (%s): %s", e.StatusCode, e.Name, e.Message)
}

// ResendClient sends email through the Resend REST API.
type ResendClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.SugaredLogger
}

// NewResendClient returns a client for the provider at baseURL
// (https://api.resend.com in production).
func NewResendClient(apiKey, baseURL string, timeout time.Duration, options ...func(*ResendClient)) (*ResendClient, error) {
	if apiKey == "" {
		return nil, errors.New("email API key must be specified")
	}
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	rc := &ResendClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(rc)
	}
	return rc, nil
}

// WithResendLogger sets the logger used by the client. Without it a no-op
// logger is used.
func WithResendLogger(logger *zap.SugaredLogger) func(*ResendClient) {
	return func(rc *ResendClient) {
		rc.log = logging.OrNop(logger)
	}
}

// WithResendHTTPClient replaces the underlying HTTP client.
func WithResendHTTPClient(c *http.Client) func(*ResendClient) {
	return func(rc *ResendClient) {
		rc.client = c
	}
}

// Send posts email to the provider. No retry is attempted.
func (rc *ResendClient) Send(ctx context.Context, email Email) (string, error) {
	payload, err := json.Marshal(struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}{email.From, email.To, email.Subject, email.HTML})
	if err != nil {
		return "", errors.Wrap(err, "error encoding email payload")
	}

	endpoint := rc.baseURL + "/emails"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "error building email request")
	}
	req.Header.Set("Authorization", "Bearer "+rc.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := rc.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "error reaching email provider: %s", endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "error reading email provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			StatusCode int    `json:"statusCode"`
			Name       string `json:"name"`
			Message    string `json:"message"`
		}
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		rc.log.Errorw("email provider rejected message",
			"status", resp.StatusCode,
			"name", apiErr.Name,
			"message", apiErr.Message)
		return "", &ProviderError{StatusCode: resp.StatusCode, Name: apiErr.Name, Message: apiErr.Message}
	}

	var apiResponse struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", errors.Wrap(err, "error decoding email provider response")
	}
	rc.log.Infow("sent email", "id", apiResponse.ID, "recipients", len(email.To))
	return apiResponse.ID, nil
}

// MockSender stands in for the provider when no API key is configured.
// Nothing is delivered.
type MockSender struct {
	Log *zap.SugaredLogger
}

// Send logs the message and returns MockEmailID.
func (m MockSender) Send(_ context.Context, email Email) (string, error) {
	logging.OrNop(m.Log).Warnw("email provider not configured, message dropped",
		"subject", email.Subject,
		"recipients", len(email.To))
	return MockEmailID, nil
}
