package application

import (
	"context"

	"github.com/mateusmacedo/go-transit/pkg/domain"
)

type EventHandler[E domain.Event[T], T any] interface {
	Handle(ctx context.Context, event E) error
}

type EventBus[E domain.Event[D], D any] interface {
	RegisterHandler(eventName string, handler EventHandler[E, D])
	Publish(ctx context.Context, event E) error
}

// DomainEvent é o evento publicado pelos serviços: o payload é o identificador da entidade.
type DomainEvent = domain.Event[string]

// DomainEventBus é o barramento compartilhado pelos slices.
type DomainEventBus = EventBus[DomainEvent, string]

// PublishDomainEvent publica o evento e apenas registra falhas: a operação que o
// originou já foi persistida.
func PublishDomainEvent(ctx context.Context, bus DomainEventBus, logger AppLogger, event DomainEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, event); err != nil {
		LogError(ctx, logger, "failed to publish event", err, map[string]interface{}{
			"event_name": event.EventName(),
			"payload":    event.Payload(),
		})
	}
}
