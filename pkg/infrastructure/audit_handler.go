package infrastructure

import (
	"context"

	"github.com/mateusmacedo/go-transit/pkg/application"
)

type auditEventHandler struct {
	logger application.AppLogger
}

// NewAuditEventHandler registra em log cada evento de domínio recebido.
func NewAuditEventHandler(logger application.AppLogger) application.EventHandler[application.DomainEvent, string] {
	return &auditEventHandler{logger: logger}
}

func (h *auditEventHandler) Handle(ctx context.Context, event application.DomainEvent) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	application.LogInfo(ctx, h.logger, "Evento recebido", map[string]interface{}{
		"event_name": event.EventName(),
		"payload":    event.Payload(),
	})
	return nil
}

// RegisterAudit associa o manipulador de auditoria a todos os nomes de evento informados.
func RegisterAudit(bus application.DomainEventBus, logger application.AppLogger, eventNames ...string) {
	handler := NewAuditEventHandler(logger)
	for _, name := range eventNames {
		bus.RegisterHandler(name, handler)
	}
}
