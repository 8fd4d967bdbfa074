//go:build integration

package adapter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/mateusmacedo/go-transit/pkg/application"
	wmAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/zaplogger/adapter"
)

type issuedEvent string

func (e issuedEvent) EventName() string { return "TitleIssued" }
func (e issuedEvent) Payload() string   { return string(e) }

type collectingHandler struct {
	mu       sync.Mutex
	payloads []string
}

func (h *collectingHandler) Handle(_ context.Context, event application.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, event.Payload())
	return nil
}

func (h *collectingHandler) received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.payloads...)
}

type RedisEventBusSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    redis.UniversalClient
}

func TestRedisEventBusSuite(t *testing.T) {
	suite.Run(t, new(RedisEventBusSuite))
}

func (s *RedisEventBusSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	addr, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(addr)
	s.Require().NoError(err)

	s.client = NewRedisClient(ClientConfig{Addr: opts.Addr})
	s.Require().NoError(s.client.Ping(ctx).Err())
}

func (s *RedisEventBusSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RedisEventBusSuite) TestPublishedEventReachesHandler() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := zapAdapter.NewZapAppLoggerFrom(zap.NewNop())
	publisher, subscriber, err := NewRedisPubSub(s.client, "transit-test", "consumer-1", wmAdapter.NewWatermillLoggerAdapter(logger))
	s.Require().NoError(err)
	defer func() {
		_ = subscriber.Close()
		_ = publisher.Close()
	}()

	bus := NewRedisEventBus[application.DomainEvent, string](ctx, publisher, subscriber, logger)
	handler := &collectingHandler{}
	bus.RegisterHandler("TitleIssued", handler)

	s.Require().NoError(bus.Publish(ctx, issuedEvent("7")))

	s.Eventually(func() bool {
		return len(handler.received()) == 1
	}, 20*time.Second, 100*time.Millisecond)
	s.Equal([]string{"7"}, handler.received())
}
