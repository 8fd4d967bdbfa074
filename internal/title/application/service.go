package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
	"github.com/mateusmacedo/go-transit/internal/title/domain"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-transit/pkg/domain"
)

// Pricing define os preços de tabela, antes de qualquer desconto.
type Pricing struct {
	TicketPrice   int
	CardBasePrice int
}

func DefaultPricing() Pricing {
	return Pricing{TicketPrice: 50, CardBasePrice: 5000}
}

type Service struct {
	repository domain.TitleRepository
	sequence   *domain.Sequence
	pricing    Pricing
	clock      pkgDomain.Clock
	eventBus   pkgApp.DomainEventBus
	logger     pkgApp.AppLogger
}

// NewService semeia a sequência a partir dos títulos já carregados no repositório.
func NewService(
	ctx context.Context,
	repository domain.TitleRepository,
	pricing Pricing,
	clock pkgDomain.Clock,
	eventBus pkgApp.DomainEventBus,
	logger pkgApp.AppLogger,
) *Service {
	sequence := domain.SeedSequence(repository.All(ctx))
	pkgApp.LogDebug(ctx, logger, "Sequência de títulos inicializada", map[string]interface{}{
		"next": sequence.Peek(),
	})

	return &Service{
		repository: repository,
		sequence:   sequence,
		pricing:    pricing,
		clock:      clock,
		eventBus:   eventBus,
		logger:     logger,
	}
}

func (s *Service) GetAll(ctx context.Context) []domain.Title {
	return s.repository.All(ctx)
}

func (s *Service) GetByID(ctx context.Context, sequenceID int) (domain.Title, bool) {
	return s.repository.Find(ctx, sequenceID)
}

func (s *Service) GetForPerson(ctx context.Context, personID uuid.UUID) []domain.Title {
	return s.repository.Filter(ctx, func(t domain.Title) bool {
		return t.PersonID == personID
	})
}

// CreateTicket emite um ticket ao preço fixo, comprado agora.
func (s *Service) CreateTicket(ctx context.Context, person personDomain.Person, payment domain.PaymentMode) (domain.Title, error) {
	if err := s.checkPurchase(person, payment); err != nil {
		return domain.Title{}, err
	}

	ticket := domain.NewTicket(s.sequence.Next(), person, s.pricing.TicketPrice, payment, s.clock())
	s.issue(ctx, ticket)
	return ticket, nil
}

// CreateCard emite um cartão com o melhor desconto. Sem desconto aplicável devolve
// ErrNoApplicableDiscount sem consumir id de sequência.
func (s *Service) CreateCard(ctx context.Context, person personDomain.Person, payment domain.PaymentMode) (domain.Title, error) {
	if err := s.checkPurchase(person, payment); err != nil {
		return domain.Title{}, err
	}

	now := s.clock()
	discount, err := domain.BestDiscount(person, s.pricing.CardBasePrice, now)
	if err != nil {
		pkgApp.LogInfo(ctx, s.logger, "Cartão recusado", map[string]interface{}{
			"person_id": person.ID.String(),
			"reason":    err.Error(),
		})
		return domain.Title{}, err
	}

	card := domain.NewCard(s.sequence.Next(), person, discount, payment, now)
	s.issue(ctx, card)
	return card, nil
}

// Quote mostra o preço que o cartão teria, sem emitir nada.
func (s *Service) Quote(_ context.Context, person personDomain.Person) (domain.Discount, error) {
	return domain.BestDiscount(person, s.pricing.CardBasePrice, s.clock())
}

// UseTicket marca o ticket armazenado como usado. Devolve false, com aviso em log,
// quando o título não existe, não é ticket ou não está válido hoje.
func (s *Service) UseTicket(ctx context.Context, title domain.Title) bool {
	now := s.clock()
	var useErr error

	_, found := s.repository.Update(ctx, title.SequenceID, func(stored *domain.Title) bool {
		useErr = stored.Use(now)
		return useErr == nil
	})

	fields := map[string]interface{}{"sequence_id": title.SequenceID}
	if !found {
		pkgApp.LogWarn(ctx, s.logger, "Título não encontrado para uso", nil, fields)
		return false
	}
	if useErr != nil {
		pkgApp.LogWarn(ctx, s.logger, "Ticket não pode ser usado", useErr, fields)
		return false
	}

	pkgApp.LogInfo(ctx, s.logger, "Ticket usado", fields)
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewTicketUsedEvent(title.SequenceID))
	return true
}

// Save grava o título por número de sequência. Um título sem número recebe o próximo.
func (s *Service) Save(ctx context.Context, title domain.Title) (domain.Title, error) {
	if err := title.Validate(); err != nil {
		return domain.Title{}, err
	}

	if title.SequenceID == 0 {
		title.SequenceID = s.sequence.Next()
	} else {
		s.sequence.Observe(title.SequenceID)
	}

	s.issue(ctx, title)
	return title, nil
}

func (s *Service) Delete(ctx context.Context, sequenceID int) bool {
	if !s.repository.Remove(ctx, sequenceID) {
		return false
	}

	pkgApp.LogInfo(ctx, s.logger, "Título removido", map[string]interface{}{
		"sequence_id": sequenceID,
	})
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewTitleDeletedEvent(sequenceID))
	return true
}

func (s *Service) IsValid(title domain.Title) bool {
	return title.IsValid(s.clock())
}

func (s *Service) State(title domain.Title) domain.State {
	return title.State(s.clock())
}

func (s *Service) checkPurchase(person personDomain.Person, payment domain.PaymentMode) error {
	if person.ID == uuid.Nil {
		return fmt.Errorf("%w: person has no id", domain.ErrInvalidTitle)
	}
	if _, err := domain.ParsePaymentMode(string(payment)); err != nil {
		return err
	}
	return nil
}

func (s *Service) issue(ctx context.Context, title domain.Title) {
	replaced := s.repository.Upsert(ctx, title)
	pkgApp.LogInfo(ctx, s.logger, "Título salvo", map[string]interface{}{
		"sequence_id": title.SequenceID,
		"kind":        string(title.Kind),
		"price":       title.Price,
		"person_id":   title.PersonID.String(),
		"replaced":    replaced,
	})
	pkgApp.PublishDomainEvent(ctx, s.eventBus, s.logger, NewTitleIssuedEvent(title.SequenceID))
}
