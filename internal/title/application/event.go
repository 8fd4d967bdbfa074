package application

import (
	"strconv"

	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
)

const (
	EventTitleIssued  = "TitleIssued"
	EventTicketUsed   = "TicketUsed"
	EventTitleDeleted = "TitleDeleted"
)

var EventNames = []string{EventTitleIssued, EventTicketUsed, EventTitleDeleted}

// titleEvent carrega o número de sequência do título como payload.
type titleEvent struct {
	name       string
	sequenceID int
}

func (e titleEvent) EventName() string {
	return e.name
}

func (e titleEvent) Payload() string {
	return strconv.Itoa(e.sequenceID)
}

func NewTitleIssuedEvent(sequenceID int) pkgApp.DomainEvent {
	return titleEvent{name: EventTitleIssued, sequenceID: sequenceID}
}

func NewTicketUsedEvent(sequenceID int) pkgApp.DomainEvent {
	return titleEvent{name: EventTicketUsed, sequenceID: sequenceID}
}

func NewTitleDeletedEvent(sequenceID int) pkgApp.DomainEvent {
	return titleEvent{name: EventTitleDeleted, sequenceID: sequenceID}
}
