package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
)

var (
	ErrInvalidTitle   = errors.New("invalid title")
	ErrInvalidPayment = errors.New("invalid payment mode")
	ErrNotATicket     = errors.New("title is not a ticket")
	ErrTicketNotValid = errors.New("ticket is not valid")
	ErrPersonNotFound = errors.New("person not found")
)

type Kind string

const (
	KindTicket       Kind = "Ticket"
	KindPersonalCard Kind = "PersonalCard"
)

// CardTier é gravado em disco pelo nome; SOLIDATIE mantém a grafia histórica.
type CardTier string

const (
	TierJunior     CardTier = "JUNIOR"
	TierSenior     CardTier = "SENIOR"
	TierSolidarity CardTier = "SOLIDATIE"
	TierPartner    CardTier = "PARTENAIRE"
)

var tierLabels = map[CardTier]string{
	TierJunior:     "Junior",
	TierSenior:     "Senior",
	TierSolidarity: "Solidarité",
	TierPartner:    "Partenaire",
}

func ParseCardTier(s string) (CardTier, bool) {
	t := CardTier(s)
	_, ok := tierLabels[t]
	return t, ok
}

func (t CardTier) Label() string {
	return tierLabels[t]
}

type PaymentMode string

const (
	PaymentCash   PaymentMode = "ESPECE"
	PaymentCard   PaymentMode = "CARTE"
	PaymentMobile PaymentMode = "MOBILE"
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch m := PaymentMode(s); m {
	case PaymentCash, PaymentCard, PaymentMobile:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPayment, s)
	}
}

// State é a situação exibida de um título num instante.
type State string

const (
	StateValid   State = "valid"
	StateUsed    State = "used"
	StateExpired State = "expired"
)

type TicketDetails struct {
	Used bool `json:"used"`
}

type CardDetails struct {
	Tier CardTier `json:"tier"`
}

// Title é um ticket ou um cartão pessoal. PersonID é apenas uma referência: a pessoa
// pode ter sido apagada depois da compra.
type Title struct {
	SequenceID  int            `json:"sequenceId"`
	Kind        Kind           `json:"kind"`
	PurchasedAt time.Time      `json:"purchasedAt"`
	Price       int            `json:"price"`
	PersonID    uuid.UUID      `json:"personId"`
	Payment     PaymentMode    `json:"payment,omitempty"`
	Ticket      *TicketDetails `json:"ticket,omitempty"`
	Card        *CardDetails   `json:"card,omitempty"`
}

func NewTicket(sequenceID int, person personDomain.Person, price int, payment PaymentMode, purchasedAt time.Time) Title {
	return Title{
		SequenceID:  sequenceID,
		Kind:        KindTicket,
		PurchasedAt: purchasedAt,
		Price:       price,
		PersonID:    person.ID,
		Payment:     payment,
		Ticket:      &TicketDetails{},
	}
}

func NewCard(sequenceID int, person personDomain.Person, discount Discount, payment PaymentMode, purchasedAt time.Time) Title {
	return Title{
		SequenceID:  sequenceID,
		Kind:        KindPersonalCard,
		PurchasedAt: purchasedAt,
		Price:       discount.Price,
		PersonID:    person.ID,
		Payment:     payment,
		Card:        &CardDetails{Tier: discount.Tier},
	}
}

func (t Title) IsTicket() bool {
	return t.Kind == KindTicket
}

// IsValid é recalculado a cada chamada: um ticket vale apenas se não foi usado e
// foi comprado no mesmo dia civil de now. Cartões emitidos valem sempre.
func (t Title) IsValid(now time.Time) bool {
	switch t.Kind {
	case KindTicket:
		return t.Ticket != nil && !t.Ticket.Used && sameDay(t.PurchasedAt, now)
	case KindPersonalCard:
		return true
	default:
		return false
	}
}

func (t Title) State(now time.Time) State {
	if t.Kind == KindTicket && t.Ticket != nil && t.Ticket.Used {
		return StateUsed
	}
	if t.IsValid(now) {
		return StateValid
	}
	return StateExpired
}

// Use marca o ticket como utilizado.
func (t *Title) Use(now time.Time) error {
	if t.Kind != KindTicket || t.Ticket == nil {
		return ErrNotATicket
	}
	if !t.IsValid(now) {
		return ErrTicketNotValid
	}
	t.Ticket.Used = true
	return nil
}

func (t Title) Clone() Title {
	if t.Ticket != nil {
		ticket := *t.Ticket
		t.Ticket = &ticket
	}
	if t.Card != nil {
		card := *t.Card
		t.Card = &card
	}
	return t
}

func (t Title) Validate() error {
	switch t.Kind {
	case KindTicket:
		if t.Ticket == nil || t.Card != nil {
			return fmt.Errorf("%w: ticket payload mismatch", ErrInvalidTitle)
		}
	case KindPersonalCard:
		if t.Card == nil || t.Ticket != nil {
			return fmt.Errorf("%w: card payload mismatch", ErrInvalidTitle)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTitle, t.Kind)
	}
	if t.SequenceID < 0 {
		return fmt.Errorf("%w: negative sequence id %d", ErrInvalidTitle, t.SequenceID)
	}
	if t.PersonID == uuid.Nil {
		return fmt.Errorf("%w: person id is required", ErrInvalidTitle)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

type TitleRepository interface {
	All(ctx context.Context) []Title
	Filter(ctx context.Context, match func(Title) bool) []Title
	Find(ctx context.Context, sequenceID int) (Title, bool)
	Upsert(ctx context.Context, title Title) bool
	Remove(ctx context.Context, sequenceID int) bool
	Update(ctx context.Context, sequenceID int, fn func(*Title) bool) (Title, bool)
	Len(ctx context.Context) int
}

// PersonLookup resolve o dono de um título pelo id.
type PersonLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (personDomain.Person, bool)
}
