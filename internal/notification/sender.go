package notification

import (
	"context"
	"fmt"
	"strings"

	"scheduleandpay/internal/config"

	"go.uber.org/zap"
)

// Message is a single HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender picks the delivery backend named by EMAIL_PROVIDER.
func NewSender(cfg *config.Config, log *zap.Logger) (Sender, error) {
	switch strings.ToLower(cfg.EmailProvider) {
	case "", "noop":
		return NewNoopSender(log), nil
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, log), nil
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		}), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}
