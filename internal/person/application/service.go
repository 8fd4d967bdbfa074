package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/person/domain"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-transit/pkg/domain"
)

type Service struct {
	repository  domain.PersonRepository
	idGenerator pkgDomain.IDGenerator[uuid.UUID]
	eventBus    pkgApp.DomainEventBus
	logger      pkgApp.AppLogger
}

func NewService(
	repository domain.PersonRepository,
	idGenerator pkgDomain.IDGenerator[uuid.UUID],
	eventBus pkgApp.DomainEventBus,
	logger pkgApp.AppLogger,
) *Service {
	return &Service{
		repository:  repository,
		idGenerator: idGenerator,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// GetAll devolve cópias na ordem em que foram gravadas.
func (s *Service) GetAll(ctx context.Context) []domain.Person {
	return s.repository.All(ctx)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Person, bool) {
	return s.repository.Find(ctx, id)
}

func (s *Service) Count(ctx context.Context) int {
	return s.repository.Len(ctx)
}

// Save cria ou substitui a pessoa. Sem id, um novo é gerado e escrito em person.
func (s *Service) Save(ctx context.Context, person *domain.Person) error {
	if person == nil {
		pkgApp.LogWarn(ctx, s.logger, "Tentativa de salvar pessoa nula", nil, nil)
		return nil
	}
	if err := person.Validate(); err != nil {
		return err
	}

	if person.ID == uuid.Nil {
		person.ID = s.idGenerator()
	}

	replaced := s.repository.Upsert(ctx, *person)
	pkgApp.LogInfo(ctx, s.logger, "Pessoa salva", map[string]interface{}{
		"person_id": person.ID.String(),
		"kind":      string(person.Kind),
		"replaced":  replaced,
	})

	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewPersonSavedEvent(person.ID))
	return nil
}

// Delete remove todos os registros com o id; títulos e reclamações que o referenciam não são tocados.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) bool {
	if !s.repository.Remove(ctx, id) {
		return false
	}

	pkgApp.LogInfo(ctx, s.logger, "Pessoa removida", map[string]interface{}{
		"person_id": id.String(),
	})
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewPersonDeletedEvent(id))
	return true
}
