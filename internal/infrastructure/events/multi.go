package events

import (
	"context"
	"errors"

	"hireflow/internal/domain/event"
	"hireflow/internal/usecase"
)

// Multi delivers each event to every sink and joins their errors.
type Multi []usecase.EventPublisher

func (m Multi) Publish(ctx context.Context, e event.Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
