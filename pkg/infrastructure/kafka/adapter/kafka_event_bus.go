package adapter

import (
	"context"
	"sync"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/domain"
	wmAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/watermill/adapter"
)

type KafkaEventBus[E domain.Event[D], D any] struct {
	ctx        context.Context
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	subscribed map[string]bool
	mu         sync.RWMutex
	logger     application.AppLogger
}

// NewKafkaPubSub cria publisher e subscriber kafka com um tópico por nome de evento.
func NewKafkaPubSub(brokers []string, consumerGroup string, logger watermill.LoggerAdapter) (*kafka.Publisher, *kafka.Subscriber, error) {
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = "transit"

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         consumerGroup,
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, err
	}

	return publisher, subscriber, nil
}

func NewKafkaEventBus[E domain.Event[D], D any](ctx context.Context, publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *KafkaEventBus[E, D] {
	return &KafkaEventBus[E, D]{
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
func (bus *KafkaEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
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

func (bus *KafkaEventBus[E, D]) Publish(ctx context.Context, event E) error {
	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return bus.publisher.Publish(event.EventName(), msg)
}
