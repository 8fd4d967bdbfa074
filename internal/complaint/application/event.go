package application

import (
	"github.com/google/uuid"

	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
)

const (
	EventComplaintFiled     = "ComplaintFiled"
	EventComplaintProcessed = "ComplaintProcessed"
	EventComplaintDeleted   = "ComplaintDeleted"
)

var EventNames = []string{EventComplaintFiled, EventComplaintProcessed, EventComplaintDeleted}

type complaintEvent struct {
	name string
	id   string
}

func (e complaintEvent) EventName() string {
	return e.name
}

func (e complaintEvent) Payload() string {
	return e.id
}

func NewComplaintFiledEvent(id uuid.UUID) pkgApp.DomainEvent {
	return complaintEvent{name: EventComplaintFiled, id: id.String()}
}

func NewComplaintProcessedEvent(id uuid.UUID) pkgApp.DomainEvent {
	return complaintEvent{name: EventComplaintProcessed, id: id.String()}
}

func NewComplaintDeletedEvent(id uuid.UUID) pkgApp.DomainEvent {
	return complaintEvent{name: EventComplaintDeleted, id: id.String()}
}
