package infrastructure

import (
	"context"

	"github.com/mateusmacedo/go-transit/internal/title/domain"
	"github.com/mateusmacedo/go-transit/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-transit/pkg/infrastructure"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
)

// NewJSONTitleRepository precisa das pessoas já carregadas: cada título resolve seu dono na leitura.
func NewJSONTitleRepository(ctx context.Context, store document.Store, persons domain.PersonLookup, logger application.AppLogger) domain.TitleRepository {
	repo := pkgInfra.NewDocumentRepository[domain.Title, int](
		store,
		NewTitleCodec(persons, logger),
		func(t domain.Title) int { return t.SequenceID },
		domain.Title.Clone,
		logger,
	)
	repo.Load(ctx)
	return repo
}
