package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/person/domain"
	"github.com/mateusmacedo/go-transit/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
)

// NewJSONPersonRepository carrega o documento de pessoas e mantém cada alteração gravada nele.
func NewJSONPersonRepository(ctx context.Context, store document.Store, logger application.AppLogger) domain.PersonRepository {
	repo := pkgInfra.NewDocumentRepository[domain.Person, uuid.UUID](
		store,
		NewPersonCodec(logger),
		func(p domain.Person) uuid.UUID { return p.ID },
		domain.Person.Clone,
		logger,
	)
	repo.Load(ctx)
	return repo
}
