//go:build integration

package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
)

type GormStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
}

func TestGormStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GormStoreSuite))
}

func (s *GormStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("transit"),
		tcpostgres.WithUsername("transit"),
		tcpostgres.WithPassword("transit"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = document.OpenPostgres(dsn)
	s.Require().NoError(err)
}

func (s *GormStoreSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *GormStoreSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DROP TABLE IF EXISTS documents").Error)
}

func (s *GormStoreSuite) TestReadMissingDocument() {
	store, err := document.NewGormStore(s.db, "personnes.json")
	s.Require().NoError(err)

	_, err = store.Read(context.Background())
	s.ErrorIs(err, document.ErrNotExist)
}

func (s *GormStoreSuite) TestWriteUpsertsDocument() {
	ctx := context.Background()
	store, err := document.NewGormStore(s.db, "titres.json")
	s.Require().NoError(err)

	s.Require().NoError(store.Write(ctx, []byte(`[]`)))
	s.Require().NoError(store.Write(ctx, []byte(`[{"type":"Ticket"}]`)))

	data, err := store.Read(ctx)
	s.Require().NoError(err)
	s.Equal(`[{"type":"Ticket"}]`, string(data))

	var count int64
	s.Require().NoError(s.db.Table("documents").Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *GormStoreSuite) TestBackupKeepsOriginalContent() {
	ctx := context.Background()
	store, err := document.NewGormStore(s.db, "reclamations.json")
	s.Require().NoError(err)
	s.Require().NoError(store.Write(ctx, []byte(`{broken`)))

	name, err := store.Backup(ctx)
	s.Require().NoError(err)
	s.Contains(name, "reclamations.json.corrupted.")

	backup, err := document.NewGormStore(s.db, name)
	s.Require().NoError(err)
	data, err := backup.Read(ctx)
	s.Require().NoError(err)
	s.Equal(`{broken`, string(data))

	original, err := store.Read(ctx)
	s.Require().NoError(err)
	s.Equal(`{broken`, string(original))
}
