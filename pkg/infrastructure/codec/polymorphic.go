package codec

import (
	"encoding/json"
	"fmt"
)

// Variant sabe codificar e decodificar o payload "data" de uma variante.
type Variant[T any] struct {
	Encode func(T) (any, error)
	Decode func(json.RawMessage) (T, error)
}

type envelopeOut struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type envelopeIn struct {
	Type *string         `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Polymorphic codifica uniões etiquetadas no formato {"type": ..., "data": {...}}.
type Polymorphic[T any] struct {
	family   string
	tagOf    func(T) string
	variants map[string]Variant[T]
	aliases  map[string]string
}

func NewPolymorphic[T any](family string, tagOf func(T) string) *Polymorphic[T] {
	return &Polymorphic[T]{
		family:   family,
		tagOf:    tagOf,
		variants: make(map[string]Variant[T]),
		aliases:  make(map[string]string),
	}
}

// Register associa o discriminador à variante; aliases só são aceitos na leitura.
func (p *Polymorphic[T]) Register(tag string, variant Variant[T], aliases ...string) *Polymorphic[T] {
	p.variants[tag] = variant
	for _, alias := range aliases {
		p.aliases[alias] = tag
	}
	return p
}

func (p *Polymorphic[T]) EncodeElement(item T) (any, error) {
	tag := p.tagOf(item)
	variant, ok := p.variants[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s type %q", ErrUnknownDiscriminator, p.family, tag)
	}

	data, err := variant.Encode(item)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %q: %w", p.family, tag, err)
	}
	return envelopeOut{Type: tag, Data: data}, nil
}

func (p *Polymorphic[T]) DecodeElement(raw json.RawMessage) (T, error) {
	var zero T

	var env envelopeIn
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrInvalidEnvelope, p.family, err)
	}
	if env.Type == nil || IsNull(env.Data) {
		return zero, fmt.Errorf("%w: %s: missing type or data", ErrInvalidEnvelope, p.family)
	}

	tag := *env.Type
	if canonical, ok := p.aliases[tag]; ok {
		tag = canonical
	}
	variant, ok := p.variants[tag]
	if !ok {
		return zero, fmt.Errorf("%w: %s type %q", ErrUnknownDiscriminator, p.family, *env.Type)
	}

	item, err := variant.Decode(env.Data)
	if err != nil {
		return zero, fmt.Errorf("decoding %s %q: %w", p.family, tag, err)
	}
	return item, nil
}

func (p *Polymorphic[T]) Encode(items []T) ([]byte, error) {
	return EncodeArray(items, p.EncodeElement)
}

func (p *Polymorphic[T]) Decode(data []byte, skip SkipFunc) ([]T, error) {
	return DecodeArray(data, p.DecodeElement, skip)
}
