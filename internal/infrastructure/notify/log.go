package notify

import (
	"context"

	"hireflow/internal/logger"

	"go.uber.org/zap"
)

// Log records outgoing mail instead of sending it. Used when SMTP is not configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(l *zap.Logger) *Log {
	if l == nil {
		l = zap.NewNop()
	}
	return &Log{logger: l}
}

func (n *Log) Send(_ context.Context, to, subject, body string) error {
	n.logger.Info("mail (delivery disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body_preview", logger.Truncate(body, 120)),
	)
	return nil
}
