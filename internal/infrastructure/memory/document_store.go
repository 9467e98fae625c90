package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

var _ repository.CollectionStore = (*DocumentStore)(nil)

type collection struct {
	docs    []repository.Document
	version int64
}

// DocumentStore CollectionStore en memoria (desarrollo y tests). Misma semántica de versión que PostgreSQL.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection

	// FailNext hace fallar la próxima operación con ErrPersistence (simulación de caídas en tests).
	FailNext bool
}

// NewDocumentStore construye un almacén vacío.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]*collection)}
}

// LoadAll devuelve copia de los documentos y la versión actual.
func (s *DocumentStore) LoadAll(_ context.Context, name string) ([]repository.Document, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return nil, 0, fmt.Errorf("%w: load %s: almacén no disponible", domain.ErrPersistence, name)
	}
	c, ok := s.collections[name]
	if !ok {
		return []repository.Document{}, 0, nil
	}
	return copyDocs(c.docs), c.version, nil
}

// ReplaceAll reemplaza la colección si la versión coincide.
func (s *DocumentStore) ReplaceAll(_ context.Context, name string, docs []repository.Document, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return 0, fmt.Errorf("%w: replace %s: almacén no disponible", domain.ErrPersistence, name)
	}
	c, ok := s.collections[name]
	if !ok {
		c = &collection{}
		s.collections[name] = c
	}
	if c.version != expectedVersion {
		return 0, fmt.Errorf("%w: %s esperaba versión %d, actual %d", domain.ErrVersionConflict, name, expectedVersion, c.version)
	}
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.ID]; dup {
			return 0, fmt.Errorf("%w: id %s repetido en %s", domain.ErrDuplicate, d.ID, name)
		}
		seen[d.ID] = struct{}{}
	}
	c.docs = copyDocs(docs)
	c.version++
	return c.version, nil
}

func copyDocs(in []repository.Document) []repository.Document {
	out := make([]repository.Document, len(in))
	for i, d := range in {
		out[i] = repository.Document{ID: d.ID, Data: append(json.RawMessage(nil), d.Data...)}
	}
	return out
}
