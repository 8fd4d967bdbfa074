// Package document persiste coleções inteiras como um único documento JSON.
package document

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrNotExist é retornado por Read quando o documento ainda não foi gravado.
var ErrNotExist = errors.New("document does not exist")

// Store guarda o conteúdo bruto de um documento nomeado.
type Store interface {
	// Name identifica o documento nos logs.
	Name() string

	// Read retorna o conteúdo atual ou ErrNotExist.
	Read(ctx context.Context) ([]byte, error)

	// Write substitui o conteúdo inteiro do documento.
	Write(ctx context.Context, data []byte) error

	// Backup copia o conteúdo atual para um local com sufixo de data e retorna esse local.
	Backup(ctx context.Context) (string, error)
}

const corruptedSuffix = ".corrupted."

func backupName(name string, now time.Time) string {
	return name + corruptedSuffix + strconv.FormatInt(now.UnixMilli(), 10)
}
