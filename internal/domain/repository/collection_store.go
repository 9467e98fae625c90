package repository

import (
	"context"
	"encoding/json"
)

// Colecciones del catálogo compartido.
const (
	CollectionProducts  = "products"
	CollectionBranches  = "branches"
	CollectionSuppliers = "suppliers"
	CollectionUsers     = "users"
)

// Document entidad serializada con su id.
type Document struct {
	ID   string
	Data json.RawMessage
}

// CollectionStore puerto de persistencia por colección completa (DIP).
//
// LoadAll devuelve los documentos y el token de versión actual (0 = colección nunca escrita).
// ReplaceAll borra y reinserta la colección de forma atómica solo si la versión almacenada sigue
// siendo expectedVersion; si otro escritor la cambió devuelve domain.ErrVersionConflict y no
// toca nada. Devuelve la nueva versión.
type CollectionStore interface {
	LoadAll(ctx context.Context, collection string) ([]Document, int64, error)
	ReplaceAll(ctx context.Context, collection string, docs []Document, expectedVersion int64) (int64, error)
}
