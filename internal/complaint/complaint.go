package complaint

import (
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/complaint/application"
	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
	"github.com/mateusmacedo/go-transit/internal/complaint/infrastructure"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-transit/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
)

type ComplaintSlice struct {
	service     *application.Service
	httpHandler *infrastructure.ComplaintHTTPHandler
}

func NewComplaintSlice(
	repository domain.ComplaintRepository,
	persons domain.PersonLookup,
	idGenerator pkgDomain.IDGenerator[uuid.UUID],
	clock pkgDomain.Clock,
	logger pkgApp.AppLogger,
	eventBus pkgApp.DomainEventBus,
) *ComplaintSlice {
	service := application.NewService(repository, persons, idGenerator, clock, eventBus, logger)
	pkgInfra.RegisterAudit(eventBus, logger, application.EventNames...)

	return &ComplaintSlice{
		service:     service,
		httpHandler: infrastructure.NewComplaintHTTPHandler(service, persons, logger),
	}
}

func (s *ComplaintSlice) Service() *application.Service {
	return s.service
}

func (s *ComplaintSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
