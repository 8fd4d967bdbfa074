package adapter

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/domain"
	wmAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/watermill/adapter"
)

// RedisEventBus publica cada evento num stream Redis com o nome do evento.
// Manipuladores registrados consomem o stream pelo consumer group configurado.
type RedisEventBus[E domain.Event[D], D any] struct {
	ctx        context.Context
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	subscribed map[string]bool
	mu         sync.RWMutex
	logger     application.AppLogger
}

// NewRedisPubSub cria publisher e subscriber redisstream sobre o mesmo cliente.
func NewRedisPubSub(client redis.UniversalClient, consumerGroup, consumer string, logger watermill.LoggerAdapter) (*redisstream.Publisher, *redisstream.Subscriber, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: consumerGroup,
		Consumer:      consumer,
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, err
	}

	return publisher, subscriber, nil
}

// NewRedisEventBus recebe o ctx que limita a vida das assinaturas.
func NewRedisEventBus[E domain.Event[D], D any](ctx context.Context, publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *RedisEventBus[E, D] {
	return &RedisEventBus[E, D]{
		ctx:        ctx,
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string][]application.EventHandler[E, D]),
		subscribed: make(map[string]bool),
		logger:     logger,
	}
}

// RegisterHandler assina o tópico no primeiro registro bem-sucedido. Se a assinatura
// falhar, o manipulador fica registrado e o próximo registro tenta de novo.
func (bus *RedisEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	if bus.subscriber == nil || bus.subscribed[eventName] {
		return
	}

	err := wmAdapter.Consume[E, D](bus.ctx, bus.subscriber, eventName, func() []application.EventHandler[E, D] {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	}, bus.logger)
	if err != nil {
		application.LogWarn(bus.ctx, bus.logger, "subscription pending retry", err, map[string]interface{}{
			"event_name": eventName,
			"handlers":   len(bus.handlers[eventName]),
		})
		return
	}
	bus.subscribed[eventName] = true
}

func (bus *RedisEventBus[E, D]) Publish(ctx context.Context, event E) error {
	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	application.LogDebug(ctx, bus.logger, "publishing event", map[string]interface{}{
		"event_name": event.EventName(),
	})
	msg := message.NewMessage(watermill.NewUUID(), payload)

	return bus.publisher.Publish(event.EventName(), msg)
}
