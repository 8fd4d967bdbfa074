package person

import (
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/person/application"
	"github.com/mateusmacedo/go-transit/internal/person/domain"
	"github.com/mateusmacedo/go-transit/internal/person/infrastructure"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-transit/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
)

type PersonSlice struct {
	service     *application.Service
	httpHandler *infrastructure.PersonHTTPHandler
}

func NewPersonSlice(
	repository domain.PersonRepository,
	idGenerator pkgDomain.IDGenerator[uuid.UUID],
	logger pkgApp.AppLogger,
	eventBus pkgApp.DomainEventBus,
) *PersonSlice {
	service := application.NewService(repository, idGenerator, eventBus, logger)
	pkgInfra.RegisterAudit(eventBus, logger, application.EventNames...)

	return &PersonSlice{
		service:     service,
		httpHandler: infrastructure.NewPersonHTTPHandler(service, logger),
	}
}

// Service é usado pelos slices que resolvem pessoas por id.
func (s *PersonSlice) Service() *application.Service {
	return s.service
}

func (s *PersonSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
