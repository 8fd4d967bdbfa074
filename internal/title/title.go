package title

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-transit/internal/title/application"
	"github.com/mateusmacedo/go-transit/internal/title/domain"
	"github.com/mateusmacedo/go-transit/internal/title/infrastructure"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-transit/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
)

type TitleSlice struct {
	service     *application.Service
	httpHandler *infrastructure.TitleHTTPHandler
}

func NewTitleSlice(
	ctx context.Context,
	repository domain.TitleRepository,
	persons domain.PersonLookup,
	pricing application.Pricing,
	clock pkgDomain.Clock,
	logger pkgApp.AppLogger,
	eventBus pkgApp.DomainEventBus,
) *TitleSlice {
	service := application.NewService(ctx, repository, pricing, clock, eventBus, logger)
	pkgInfra.RegisterAudit(eventBus, logger, application.EventNames...)

	return &TitleSlice{
		service:     service,
		httpHandler: infrastructure.NewTitleHTTPHandler(service, persons, logger),
	}
}

func (s *TitleSlice) Service() *application.Service {
	return s.service
}

func (s *TitleSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
