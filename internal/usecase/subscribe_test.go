package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/gateway"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email gateway.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func TestNewsletter_Subscribe(t *testing.T) {
	const from = "Pebbling AI <newsletter@pebbling.ai>"
	const subject = "Welcome to Pebbling AI Newsletter"

	testCases := []struct {
		name        string
		email       string
		sendID      string
		sendErr     error
		expectSend  bool
		expectedID  string
		expectedErr error
		errContains string
	}{
		{
			name:       "happy path - returns provider id",
			email:      "ada@pebbling.ai",
			sendID:     "msg_123",
			expectSend: true,
			expectedID: "msg_123",
		},
		{
			name:        "missing email - no external call",
			email:       "",
			expectedErr: domain.ErrEmailRequired,
		},
		{
			name:        "malformed email - no external call",
			email:       "not-an-email",
			expectedErr: domain.ErrInvalidEmail,
		},
		{
			name:        "provider failure",
			email:       "ada@pebbling.ai",
			sendErr:     &gateway.ProviderError{StatusCode: 500, Name: "application_error", Message: "boom"},
			expectSend:  true,
			errContains: "failed to send confirmation email",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sender := new(mockSender)
			if tc.expectSend {
				sender.On("Send", mock.Anything, mock.MatchedBy(func(e gateway.Email) bool {
					return e.From == from &&
						e.Subject == subject &&
						len(e.To) == 1 && e.To[0] == tc.email &&
						e.HTML != ""
				})).Return(tc.sendID, tc.sendErr).Once()
			}

			newsletter := NewNewsletter(sender, from, subject, nil)
			id, err := newsletter.Subscribe(context.Background(), tc.email)

			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.True(t, domain.IsInputError(err))
			case tc.errContains != "":
				assert.ErrorContains(t, err, tc.errContains)
				assert.False(t, domain.IsInputError(err))
				var providerErr *gateway.ProviderError
				assert.True(t, errors.As(err, &providerErr))
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedID, id)
			}
			sender.AssertExpectations(t)
			if !tc.expectSend {
				sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestNewsletter_Subscribe_WithSite(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e gateway.Email) bool {
		return strings.Contains(e.HTML, `href="https://staging.pebbling.ai"`) &&
			strings.Contains(e.HTML, "Welcome to Pebble Labs Newsletter!")
	})).Return("msg_1", nil).Once()

	newsletter := NewNewsletter(sender, "news@pebbling.ai", "Welcome", nil,
		WithSite("Pebble Labs", "https://staging.pebbling.ai"))
	id, err := newsletter.Subscribe(context.Background(), "ada@pebbling.ai")

	assert.NoError(t, err)
	assert.Equal(t, "msg_1", id)
	sender.AssertExpectations(t)
}
