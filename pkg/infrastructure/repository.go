package infrastructure

import (
	"context"
	"errors"
	"sync"

	"github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
)

// DocumentCodec converte a coleção inteira de/para o documento persistido.
type DocumentCodec[T any] interface {
	Encode(items []T) ([]byte, error)
	Decode(data []byte, skip codec.SkipFunc) ([]T, error)
}

// DocumentRepository mantém a coleção em memória e regrava o documento inteiro a cada mutação.
type DocumentRepository[T any, K comparable] struct {
	mu     sync.RWMutex
	items  []T
	store  document.Store
	codec  DocumentCodec[T]
	keyOf  func(T) K
	clone  func(T) T
	logger application.AppLogger
}

// NewDocumentRepository cria um repositório vazio; chame Load para ler o documento.
// clone pode ser nil quando T não compartilha memória.
func NewDocumentRepository[T any, K comparable](
	store document.Store,
	c DocumentCodec[T],
	keyOf func(T) K,
	clone func(T) T,
	logger application.AppLogger,
) *DocumentRepository[T, K] {
	if clone == nil {
		clone = func(item T) T { return item }
	}
	return &DocumentRepository[T, K]{
		store:  store,
		codec:  c,
		keyOf:  keyOf,
		clone:  clone,
		logger: logger,
	}
}

// Load substitui a coleção pelo conteúdo do documento. Falhas nunca são fatais:
// documento ausente resulta em coleção vazia e documento corrompido é copiado para backup.
func (r *DocumentRepository[T, K]) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = nil
	fields := map[string]interface{}{"document": r.store.Name()}

	data, err := r.store.Read(ctx)
	if errors.Is(err, document.ErrNotExist) {
		application.LogInfo(ctx, r.logger, "document not found, starting empty", fields)
		return
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to read document", err, fields)
		return
	}

	items, err := r.codec.Decode(data, func(index int, err error) {
		application.LogWarn(ctx, r.logger, "skipping invalid record", err, map[string]interface{}{
			"document": r.store.Name(),
			"index":    index,
		})
	})
	if err != nil {
		application.LogError(ctx, r.logger, "document is corrupted", err, fields)
		location, backupErr := r.store.Backup(ctx)
		if backupErr != nil {
			application.LogError(ctx, r.logger, "failed to back up corrupted document", backupErr, fields)
			return
		}
		application.LogWarn(ctx, r.logger, "corrupted document backed up", nil, map[string]interface{}{
			"document": r.store.Name(),
			"backup":   location,
		})
		return
	}

	r.items = items
	application.LogInfo(ctx, r.logger, "document loaded", map[string]interface{}{
		"document": r.store.Name(),
		"count":    len(items),
	})
}

// All devolve cópias na ordem de armazenamento.
func (r *DocumentRepository[T, K]) All(ctx context.Context) []T {
	return r.Filter(ctx, nil)
}

// Filter devolve cópias dos itens aceitos por match; match nil aceita todos.
func (r *DocumentRepository[T, K]) Filter(_ context.Context, match func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		if match == nil || match(item) {
			out = append(out, r.clone(item))
		}
	}
	return out
}

func (r *DocumentRepository[T, K]) Find(_ context.Context, key K) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if r.keyOf(item) == key {
			return r.clone(item), true
		}
	}
	var zero T
	return zero, false
}

func (r *DocumentRepository[T, K]) Len(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Upsert substitui no lugar o item com a mesma chave ou acrescenta ao final, e persiste.
// Devolve true quando houve substituição.
func (r *DocumentRepository[T, K]) Upsert(ctx context.Context, item T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.clone(item)
	key := r.keyOf(item)
	replaced := false
	for i := range r.items {
		if r.keyOf(r.items[i]) == key {
			r.items[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		r.items = append(r.items, stored)
	}

	r.persist(ctx)
	return replaced
}

// Remove apaga todos os itens com a chave; só persiste quando algo foi removido.
func (r *DocumentRepository[T, K]) Remove(ctx context.Context, key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, item := range r.items {
		if r.keyOf(item) != key {
			kept = append(kept, item)
		}
	}
	removed := len(kept) != len(r.items)
	var zero T
	for i := len(kept); i < len(r.items); i++ {
		r.items[i] = zero
	}
	r.items = kept

	if removed {
		r.persist(ctx)
	}
	return removed
}

// Update aplica fn ao item armazenado sob o lock de escrita. fn devolve true quando
// alterou o item; só então o documento é regravado. O retorno indica se o item existe
// e a cópia resultante.
func (r *DocumentRepository[T, K]) Update(ctx context.Context, key K, fn func(*T) bool) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.keyOf(r.items[i]) != key {
			continue
		}
		if fn(&r.items[i]) {
			r.persist(ctx)
		}
		return r.clone(r.items[i]), true
	}
	var zero T
	return zero, false
}

// persist deve ser chamado com o lock de escrita. Falhas ficam só no log: o estado em
// memória permanece à frente do disco.
func (r *DocumentRepository[T, K]) persist(ctx context.Context) {
	fields := map[string]interface{}{
		"document": r.store.Name(),
		"count":    len(r.items),
	}

	data, err := r.codec.Encode(r.items)
	if err != nil {
		application.LogError(ctx, r.logger, "failed to encode document", err, fields)
		return
	}
	if err := r.store.Write(ctx, data); err != nil {
		application.LogError(ctx, r.logger, "failed to write document", err, fields)
		return
	}
	application.LogDebug(ctx, r.logger, "document written", fields)
}
