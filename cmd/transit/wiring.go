package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-transit/internal/complaint"
	complaintApp "github.com/mateusmacedo/go-transit/internal/complaint/application"
	complaintInfra "github.com/mateusmacedo/go-transit/internal/complaint/infrastructure"
	"github.com/mateusmacedo/go-transit/internal/config"
	"github.com/mateusmacedo/go-transit/internal/person"
	personApp "github.com/mateusmacedo/go-transit/internal/person/application"
	personInfra "github.com/mateusmacedo/go-transit/internal/person/infrastructure"
	"github.com/mateusmacedo/go-transit/internal/title"
	titleApp "github.com/mateusmacedo/go-transit/internal/title/application"
	titleInfra "github.com/mateusmacedo/go-transit/internal/title/infrastructure"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/channels/adapter"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
	kafkaAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/kafka/adapter"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/metrics"
	redisAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/redis/adapter"
	wmAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/watermill/adapter"
)

// application reúne os três slices sobre os mesmos stores e barramento.
type application struct {
	persons    *person.PersonSlice
	titles     *title.TitleSlice
	complaints *complaint.ComplaintSlice
	metrics    *metrics.Metrics
	closers    []func() error
}

func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newApplication carrega os documentos na ordem exigida pelas referências:
// pessoas antes de títulos e reclamações.
func newApplication(ctx context.Context, cfg *config.Config, logger pkgApp.AppLogger) (*application, error) {
	app := &application{metrics: metrics.New()}

	eventBus, err := newEventBus(ctx, cfg.Events, logger, app)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("creating event bus: %w", err)
	}
	app.metrics.RegisterEventCounter(eventBus, eventNames()...)

	stores, err := newStores(cfg.Data, app)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("opening document stores: %w", err)
	}

	personRepo := personInfra.NewJSONPersonRepository(ctx, stores.persons, logger)
	app.persons = person.NewPersonSlice(personRepo, pkgInfra.GenerateUUID, logger, eventBus)
	persons := app.persons.Service()

	titleRepo := titleInfra.NewJSONTitleRepository(ctx, stores.titles, persons, logger)
	app.titles = title.NewTitleSlice(ctx, titleRepo, persons, titleApp.Pricing{
		TicketPrice:   cfg.Pricing.TicketPrice,
		CardBasePrice: cfg.Pricing.CardBasePrice,
	}, time.Now, logger, eventBus)

	complaintRepo := complaintInfra.NewJSONComplaintRepository(ctx, stores.complaints, logger)
	app.complaints = complaint.NewComplaintSlice(complaintRepo, persons, pkgInfra.GenerateUUID, time.Now, logger, eventBus)

	return app, nil
}

func eventNames() []string {
	names := append([]string(nil), personApp.EventNames...)
	names = append(names, titleApp.EventNames...)
	return append(names, complaintApp.EventNames...)
}

type documentStores struct {
	persons    document.Store
	titles     document.Store
	complaints document.Store
}

func newStores(cfg config.DataConfig, app *application) (documentStores, error) {
	if cfg.Driver == config.DataDriverPostgres {
		db, err := document.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return documentStores{}, err
		}
		app.closers = append(app.closers, func() error { return closeGorm(db) })
		return gormStores(db, cfg)
	}

	var stores documentStores
	var err error
	if stores.persons, err = document.NewFileStore(cfg.Dir, cfg.PersonsFile); err != nil {
		return documentStores{}, err
	}
	if stores.titles, err = document.NewFileStore(cfg.Dir, cfg.TitlesFile); err != nil {
		return documentStores{}, err
	}
	if stores.complaints, err = document.NewFileStore(cfg.Dir, cfg.ComplaintsFile); err != nil {
		return documentStores{}, err
	}
	return stores, nil
}

func gormStores(db *gorm.DB, cfg config.DataConfig) (documentStores, error) {
	var stores documentStores
	var err error
	if stores.persons, err = document.NewGormStore(db, cfg.PersonsFile); err != nil {
		return documentStores{}, err
	}
	if stores.titles, err = document.NewGormStore(db, cfg.TitlesFile); err != nil {
		return documentStores{}, err
	}
	if stores.complaints, err = document.NewGormStore(db, cfg.ComplaintsFile); err != nil {
		return documentStores{}, err
	}
	return stores, nil
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newEventBus(ctx context.Context, cfg config.EventsConfig, logger pkgApp.AppLogger, app *application) (pkgApp.DomainEventBus, error) {
	wmLogger := wmAdapter.NewWatermillLoggerAdapter(logger)

	switch cfg.Driver {
	case config.EventsDriverChannels:
		pubSub := channelsAdapter.NewGoChannelPubSub(wmLogger)
		app.closers = append(app.closers, pubSub.Close)
		return channelsAdapter.NewWatermillEventBus[pkgApp.DomainEvent, string](pubSub, logger), nil

	case config.EventsDriverRedis:
		client := redisAdapter.NewRedisClient(redisAdapter.ClientConfig{Addr: cfg.RedisAddr})
		app.closers = append(app.closers, client.Close)
		publisher, subscriber, err := redisAdapter.NewRedisPubSub(client, cfg.ConsumerGroup, consumerName(), wmLogger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, closePubSub(publisher, subscriber))
		return redisAdapter.NewRedisEventBus[pkgApp.DomainEvent, string](ctx, publisher, subscriber, logger), nil

	case config.EventsDriverKafka:
		publisher, subscriber, err := kafkaAdapter.NewKafkaPubSub(cfg.KafkaBrokers, cfg.ConsumerGroup, wmLogger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, closePubSub(publisher, subscriber))
		return kafkaAdapter.NewKafkaEventBus[pkgApp.DomainEvent, string](ctx, publisher, subscriber, logger), nil
	}

	return pkgInfra.NewSimpleEventBus[pkgApp.DomainEvent, string](logger), nil
}

func closePubSub(publisher message.Publisher, subscriber message.Subscriber) func() error {
	return func() error {
		return errors.Join(subscriber.Close(), publisher.Close())
	}
}

// consumerName identifica esta instância dentro do consumer group.
func consumerName() string {
	host, err := os.Hostname()
	if err != nil {
		return uuid.NewString()
	}
	return host + "-" + uuid.NewString()[:8]
}
