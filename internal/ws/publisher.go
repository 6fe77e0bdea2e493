package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"hireflow/internal/domain/event"
)

// Publisher pushes workflow events to the connected recipients of each event.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) Publish(_ context.Context, e event.Event) error {
	if p == nil || p.hub == nil || len(e.Recipients) == 0 {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal ws event: %w", err)
	}
	if !p.hub.SendTo(e.Recipients, b) {
		return fmt.Errorf("ws event %s dropped", e.Type)
	}
	return nil
}
