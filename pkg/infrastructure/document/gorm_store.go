package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRecord struct {
	Name      string `gorm:"primaryKey"`
	Content   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (documentRecord) TableName() string {
	return "documents"
}

// GormStore guarda o documento como uma linha da tabela documents.
type GormStore struct {
	db   *gorm.DB
	name string
	now  func() time.Time
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return db, nil
}

func NewGormStore(db *gorm.DB, name string) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("migrating documents table: %w", err)
	}
	return &GormStore{
		db:   db,
		name: name,
		now:  time.Now,
	}, nil
}

func (s *GormStore) Name() string {
	return s.name
}

func (s *GormStore) Read(ctx context.Context) ([]byte, error) {
	var record documentRecord
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", s.name, err)
	}
	return []byte(record.Content), nil
}

func (s *GormStore) Write(ctx context.Context, data []byte) error {
	record := documentRecord{
		Name:      s.name,
		Content:   string(data),
		UpdatedAt: s.now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("writing document %s: %w", s.name, err)
	}
	return nil
}

func (s *GormStore) Backup(ctx context.Context) (string, error) {
	data, err := s.Read(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	record := documentRecord{
		Name:      backupName(s.name, now),
		Content:   string(data),
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("writing backup of %s: %w", s.name, err)
	}
	return record.Name, nil
}
