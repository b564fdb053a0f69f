package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/gateway"
	"github.com/pebbling-ai/pebbling-site/internal/logging"
	"github.com/pebbling-ai/pebbling-site/internal/mail"
)

// Newsletter subscribes addresses by sending them the welcome message.
// Subscribers are not persisted, deduplicated or retried.
type Newsletter struct {
	sender  gateway.EmailSender
	from    string
	subject string
	brand   string
	siteURL string
	logger  *zap.SugaredLogger
}

// NewNewsletter creates a Newsletter that sends from the given address.
func NewNewsletter(sender gateway.EmailSender, from, subject string, logger *zap.SugaredLogger, options ...func(*Newsletter)) *Newsletter {
	n := &Newsletter{
		sender:  sender,
		from:    from,
		subject: subject,
		logger:  logging.OrNop(logger),
	}
	for _, o := range options {
		o(n)
	}
	return n
}

// WithSite sets the brand name and site link used in the welcome message.
// Empty values keep the message defaults.
func WithSite(brand, siteURL string) func(*Newsletter) {
	return func(n *Newsletter) {
		n.brand = brand
		n.siteURL = siteURL
	}
}

// Subscribe validates email and sends the welcome message, returning the
// provider message id. Validation failures are domain input errors and
// never reach the provider.
func (n *Newsletter) Subscribe(ctx context.Context, email string) (string, error) {
	subscriber := domain.Subscriber{Email: email}
	if err := subscriber.Validate(); err != nil {
		return "", err
	}

	body, err := mail.RenderWelcome(mail.WelcomeData{
		Brand:   n.brand,
		Email:   subscriber.Email,
		SiteURL: n.siteURL,
	})
	if err != nil {
		return "", err
	}

	id, err := n.sender.Send(ctx, gateway.Email{
		From:    n.from,
		To:      []string{subscriber.Email},
		Subject: n.subject,
		HTML:    body,
	})
	if err != nil {
		n.logger.Errorw("error sending email", "err", err)
		return "", fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return id, nil
}
