package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore guarda o documento num arquivo local.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore garante que o diretório exista antes de qualquer leitura.
func NewFileStore(dir, filename string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileStore{
		path: filepath.Join(dir, filename),
		now:  time.Now,
	}, nil
}

func (s *FileStore) Name() string {
	return s.path
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return data, nil
}

// Write grava num arquivo temporário do mesmo diretório e renomeia por cima do original.
func (s *FileStore) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Backup(ctx context.Context) (string, error) {
	data, err := s.Read(ctx)
	if err != nil {
		return "", err
	}

	target := backupName(s.path, s.now())
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", target, err)
	}
	return target, nil
}
