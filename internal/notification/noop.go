package notification

import (
	"context"

	"go.uber.org/zap"
)

// NoopSender only logs. Used in development and tests.
type NoopSender struct {
	log *zap.Logger
}

func NewNoopSender(log *zap.Logger) *NoopSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.log.Info("noop_email_send", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
