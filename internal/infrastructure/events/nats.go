package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/domain/event"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes workflow events as JSON on "<prefix>.<event type>".
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
	logger *zap.Logger
}

func NewNATSPublisher(cfg config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("hireflow"),
		nats.Timeout(timeout),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	prefix := strings.Trim(strings.TrimSpace(cfg.SubjectPrefix), ".")
	return &NATSPublisher{nc: nc, prefix: prefix, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, e event.Event) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	subject := Subject(p.prefix, e.Type)
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("subject", subject),
			zap.String("application_id", e.ApplicationID.String()),
			zap.Error(err))
		return fmt.Errorf("publishing event: %w", err)
	}

	p.logger.Debug("published event",
		zap.String("subject", subject),
		zap.String("application_id", e.ApplicationID.String()),
		zap.String("status", e.Status))
	return nil
}

func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		if err := p.nc.Drain(); err != nil {
			p.nc.Close()
		}
	}
	return nil
}

func Subject(prefix string, t event.Type) string {
	if prefix == "" {
		return string(t)
	}
	return prefix + "." + string(t)
}
