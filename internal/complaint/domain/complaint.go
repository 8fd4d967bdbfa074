package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
)

var (
	ErrInvalidComplaint  = errors.New("invalid complaint")
	ErrInvalidCategory   = errors.New("invalid complaint category")
	ErrInvalidStatus     = errors.New("invalid complaint status")
	ErrTerminalStatus    = errors.New("complaint already processed")
	ErrResponseRequired  = errors.New("response text is required")
	ErrInvalidTransition = errors.New("invalid complaint transition")
	ErrNotFound          = errors.New("complaint not found")
)

// Status é gravado pelo nome; EN_COURS é o único estado não terminal.
type Status string

const (
	StatusFiled     Status = "EN_COURS"
	StatusResolved  Status = "TRAITE"
	StatusRejected  Status = "REFUSE"
	StatusCancelled Status = "ANNULE"
)

var statusLabels = map[Status]string{
	StatusFiled:     "En cours",
	StatusResolved:  "Traité",
	StatusRejected:  "Refusé",
	StatusCancelled: "Annulé",
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := statusLabels[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func (s Status) Label() string {
	return statusLabels[s]
}

func (s Status) IsTerminal() bool {
	return s != StatusFiled
}

type Category string

const (
	CategoryTechnical Category = "TECHNIQUE"
	CategoryPayment   Category = "PAIEMENT"
	CategoryService   Category = "SERVICE"
	CategoryOther     Category = "AUTRE"
)

var categoryLabels = map[Category]string{
	CategoryTechnical: "Technique",
	CategoryPayment:   "Paiement",
	CategoryService:   "Service",
	CategoryOther:     "Autre",
}

func ParseCategory(s string) (Category, error) {
	category := Category(s)
	if _, ok := categoryLabels[category]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return category, nil
}

func (c Category) Label() string {
	return categoryLabels[c]
}

type Complaint struct {
	ID          uuid.UUID  `json:"id"`
	PersonID    uuid.UUID  `json:"personId"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Status      Status     `json:"status"`
	FiledAt     time.Time  `json:"filedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	Response    *string    `json:"response,omitempty"`
}

func NewComplaint(id uuid.UUID, person personDomain.Person, description string, category Category, filedAt time.Time) Complaint {
	return Complaint{
		ID:          id,
		PersonID:    person.ID,
		Description: description,
		Category:    category,
		Status:      StatusFiled,
		FiledAt:     filedAt,
	}
}

func (c *Complaint) Resolve(response string, now time.Time) error {
	return c.Transition(StatusResolved, response, now)
}

func (c *Complaint) Reject(response string, now time.Time) error {
	return c.Transition(StatusRejected, response, now)
}

func (c *Complaint) Cancel(now time.Time) error {
	return c.Transition(StatusCancelled, "", now)
}

// Transition só sai de EN_COURS. Resolver e recusar exigem texto de resposta;
// cancelar registra apenas a data de tratamento.
func (c *Complaint) Transition(target Status, response string, now time.Time) error {
	if c.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalStatus, c.Status)
	}

	switch target {
	case StatusResolved, StatusRejected:
		if strings.TrimSpace(response) == "" {
			return ErrResponseRequired
		}
		c.Response = &response
	case StatusCancelled:
	default:
		return fmt.Errorf("%w: %s -> %q", ErrInvalidTransition, c.Status, target)
	}

	c.Status = target
	c.ResolvedAt = &now
	return nil
}

func (c Complaint) Clone() Complaint {
	if c.ResolvedAt != nil {
		at := *c.ResolvedAt
		c.ResolvedAt = &at
	}
	if c.Response != nil {
		response := *c.Response
		c.Response = &response
	}
	return c
}

func (c Complaint) Validate() error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrInvalidComplaint)
	}
	if c.PersonID == uuid.Nil {
		return fmt.Errorf("%w: person id is required", ErrInvalidComplaint)
	}
	if _, err := ParseStatus(string(c.Status)); err != nil {
		return err
	}
	if c.Category != "" {
		if _, err := ParseCategory(string(c.Category)); err != nil {
			return err
		}
	}
	return nil
}

type ComplaintRepository interface {
	All(ctx context.Context) []Complaint
	Filter(ctx context.Context, match func(Complaint) bool) []Complaint
	Find(ctx context.Context, id uuid.UUID) (Complaint, bool)
	Upsert(ctx context.Context, complaint Complaint) bool
	Remove(ctx context.Context, id uuid.UUID) bool
	Update(ctx context.Context, id uuid.UUID, fn func(*Complaint) bool) (Complaint, bool)
	Len(ctx context.Context) int
}

type PersonLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (personDomain.Person, bool)
}
