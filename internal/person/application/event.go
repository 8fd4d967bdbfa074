package application

import (
	"github.com/google/uuid"

	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
)

const (
	EventPersonSaved   = "PersonSaved"
	EventPersonDeleted = "PersonDeleted"
)

// EventNames lista os eventos publicados pelo serviço de pessoas.
var EventNames = []string{EventPersonSaved, EventPersonDeleted}

type personEvent struct {
	name string
	id   string
}

func (e personEvent) EventName() string {
	return e.name
}

func (e personEvent) Payload() string {
	return e.id
}

func NewPersonSavedEvent(id uuid.UUID) pkgApp.DomainEvent {
	return personEvent{name: EventPersonSaved, id: id.String()}
}

func NewPersonDeletedEvent(id uuid.UUID) pkgApp.DomainEvent {
	return personEvent{name: EventPersonDeleted, id: id.String()}
}
