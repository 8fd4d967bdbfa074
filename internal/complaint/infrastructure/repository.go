package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
	"github.com/mateusmacedo/go-transit/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
)

func NewJSONComplaintRepository(ctx context.Context, store document.Store, logger application.AppLogger) domain.ComplaintRepository {
	repo := pkgInfra.NewDocumentRepository[domain.Complaint, uuid.UUID](
		store,
		ComplaintCodec{},
		func(c domain.Complaint) uuid.UUID { return c.ID },
		domain.Complaint.Clone,
		logger,
	)
	repo.Load(ctx)
	return repo
}
