package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-transit/pkg/domain"
)

type Service struct {
	repository  domain.ComplaintRepository
	persons     domain.PersonLookup
	idGenerator pkgDomain.IDGenerator[uuid.UUID]
	clock       pkgDomain.Clock
	eventBus    pkgApp.DomainEventBus
	logger      pkgApp.AppLogger
}

func NewService(
	repository domain.ComplaintRepository,
	persons domain.PersonLookup,
	idGenerator pkgDomain.IDGenerator[uuid.UUID],
	clock pkgDomain.Clock,
	eventBus pkgApp.DomainEventBus,
	logger pkgApp.AppLogger,
) *Service {
	return &Service{
		repository:  repository,
		persons:     persons,
		idGenerator: idGenerator,
		clock:       clock,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// GetAll devolve as reclamações da mais recente para a mais antiga.
func (s *Service) GetAll(ctx context.Context) []domain.Complaint {
	return newestFirst(s.repository.All(ctx))
}

func (s *Service) GetForPerson(ctx context.Context, personID uuid.UUID) []domain.Complaint {
	return newestFirst(s.repository.Filter(ctx, func(c domain.Complaint) bool {
		return c.PersonID == personID
	}))
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Complaint, bool) {
	return s.repository.Find(ctx, id)
}

// GetPersonFor resolve o autor da reclamação; false quando a pessoa foi apagada.
func (s *Service) GetPersonFor(ctx context.Context, complaint domain.Complaint) (personDomain.Person, bool) {
	return s.persons.GetByID(ctx, complaint.PersonID)
}

func (s *Service) Create(ctx context.Context, person personDomain.Person, description string, category domain.Category) (domain.Complaint, error) {
	if person.ID == uuid.Nil {
		return domain.Complaint{}, fmt.Errorf("%w: person has no id", domain.ErrInvalidComplaint)
	}
	if strings.TrimSpace(description) == "" {
		return domain.Complaint{}, fmt.Errorf("%w: description is required", domain.ErrInvalidComplaint)
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return domain.Complaint{}, err
	}

	complaint := domain.NewComplaint(s.idGenerator(), person, description, category, s.clock())
	s.repository.Upsert(ctx, complaint)

	pkgApp.LogInfo(ctx, s.logger, "Reclamação registrada", map[string]interface{}{
		"complaint_id": complaint.ID.String(),
		"person_id":    person.ID.String(),
		"category":     string(category),
	})
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewComplaintFiledEvent(complaint.ID))
	return complaint, nil
}

// Process aplica a transição à reclamação armazenada. Uma reclamação já tratada
// não muda e nada é gravado.
func (s *Service) Process(ctx context.Context, complaint domain.Complaint, target domain.Status, response string) (domain.Complaint, error) {
	now := s.clock()
	var transitionErr error

	stored, found := s.repository.Update(ctx, complaint.ID, func(c *domain.Complaint) bool {
		transitionErr = c.Transition(target, response, now)
		return transitionErr == nil
	})
	fields := map[string]interface{}{
		"complaint_id": complaint.ID.String(),
		"target":       string(target),
	}

	switch {
	case !found:
		return domain.Complaint{}, fmt.Errorf("%w: %s", domain.ErrNotFound, complaint.ID)
	case errors.Is(transitionErr, domain.ErrTerminalStatus):
		pkgApp.LogDebug(ctx, s.logger, "Reclamação já processada", fields)
		return stored, nil
	case transitionErr != nil:
		return domain.Complaint{}, transitionErr
	}

	pkgApp.LogInfo(ctx, s.logger, "Reclamação processada", fields)
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewComplaintProcessedEvent(complaint.ID))
	return stored, nil
}

// Save regrava a reclamação inteira, substituindo a de mesmo id.
func (s *Service) Save(ctx context.Context, complaint domain.Complaint) error {
	if err := complaint.Validate(); err != nil {
		return err
	}

	replaced := s.repository.Upsert(ctx, complaint)
	pkgApp.LogInfo(ctx, s.logger, "Reclamação salva", map[string]interface{}{
		"complaint_id": complaint.ID.String(),
		"replaced":     replaced,
	})
	if !replaced {
		pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewComplaintFiledEvent(complaint.ID))
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) bool {
	if !s.repository.Remove(ctx, id) {
		return false
	}

	pkgApp.LogInfo(ctx, s.logger, "Reclamação removida", map[string]interface{}{
		"complaint_id": id.String(),
	})
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewComplaintDeletedEvent(id))
	return true
}

func newestFirst(complaints []domain.Complaint) []domain.Complaint {
	sort.SliceStable(complaints, func(i, j int) bool {
		return complaints[i].FiledAt.After(complaints[j].FiledAt)
	})
	return complaints
}
