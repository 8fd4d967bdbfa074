package adapter

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/domain"
)

type dynamicEvent[D any] struct {
	eventName string
	payload   D
}

func (e *dynamicEvent[D]) EventName() string {
	return e.eventName
}

func (e *dynamicEvent[D]) Payload() D {
	return e.payload
}

// Consume assina o tópico e entrega cada mensagem aos manipuladores até ctx ser cancelado.
// Mensagens que não decodificam ou cujo manipulador falha recebem Nack.
func Consume[E domain.Event[D], D any](
	ctx context.Context,
	subscriber message.Subscriber,
	eventName string,
	handlers func() []application.EventHandler[E, D],
	logger application.AppLogger,
) error {
	messages, err := subscriber.Subscribe(ctx, eventName)
	if err != nil {
		application.LogError(ctx, logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	go func() {
		for msg := range messages {
			handleMessage(ctx, msg, eventName, handlers(), logger)
		}
	}()
	return nil
}

func handleMessage[E domain.Event[D], D any](
	ctx context.Context,
	msg *message.Message,
	eventName string,
	handlers []application.EventHandler[E, D],
	logger application.AppLogger,
) {
	var payload D
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		application.LogError(ctx, logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	typedEvent, ok := interface{}(&dynamicEvent[D]{eventName: eventName, payload: payload}).(E)
	if !ok {
		application.LogError(ctx, logger, "error casting event", nil, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	for _, handler := range handlers {
		if err := handler.Handle(ctx, typedEvent); err != nil {
			application.LogError(ctx, logger, "error handling event", err, map[string]interface{}{
				"event_name": eventName,
			})
			msg.Nack()
			return
		}
	}

	application.LogDebug(ctx, logger, "event handled", map[string]interface{}{
		"event_name": eventName,
	})
	msg.Ack()
}
