// Package codec converte coleções de entidades em documentos JSON.
//
// Um documento é sempre um array. A falha ao interpretar o array inteiro é
// ErrMalformedDocument; a falha de um elemento é repassada ao callback skip e o
// elemento é descartado, sem interromper os demais.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument    = errors.New("malformed document")
	ErrInvalidEnvelope      = errors.New("invalid envelope")
	ErrUnknownDiscriminator = errors.New("unknown discriminator")
)

// SkipFunc recebe o índice e o motivo de cada elemento descartado.
type SkipFunc func(index int, err error)

// DecodeArray trata documento vazio ou null como coleção vazia.
func DecodeArray[T any](data []byte, decode func(json.RawMessage) (T, error), skip SkipFunc) ([]T, error) {
	if IsNull(data) {
		return nil, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	items := make([]T, 0, len(elements))
	for i, raw := range elements {
		item, err := decode(raw)
		if err != nil {
			if skip != nil {
				skip(i, err)
			}
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// EncodeArray grava o array com indentação de dois espaços.
func EncodeArray[T any](items []T, encode func(T) (any, error)) ([]byte, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := encode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// IsNull indica campo ausente ou null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
