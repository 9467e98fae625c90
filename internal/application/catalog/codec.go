package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

// collections orden de carga y persistencia.
var collections = []string{
	repository.CollectionBranches,
	repository.CollectionSuppliers,
	repository.CollectionUsers,
	repository.CollectionProducts,
}

type identified interface {
	EntityID() string
}

func encodeAll[T identified](items []T) ([]repository.Document, error) {
	docs := make([]repository.Document, 0, len(items))
	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", it.EntityID(), err)
		}
		docs = append(docs, repository.Document{ID: it.EntityID(), Data: raw})
	}
	return docs, nil
}

func decodeAll[T any](docs []repository.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", d.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// encodeCollection serializa la colección indicada del snapshot.
func encodeCollection(s Snapshot, collection string) ([]repository.Document, error) {
	switch collection {
	case repository.CollectionProducts:
		return encodeAll(s.Products)
	case repository.CollectionBranches:
		return encodeAll(s.Branches)
	case repository.CollectionSuppliers:
		return encodeAll(s.Suppliers)
	case repository.CollectionUsers:
		return encodeAll(s.Users)
	}
	return nil, fmt.Errorf("colección desconocida %q", collection)
}

// decodeCollection reemplaza en s la colección indicada con los documentos.
func decodeCollection(s *Snapshot, collection string, docs []repository.Document) error {
	var err error
	switch collection {
	case repository.CollectionProducts:
		s.Products, err = decodeAll[entity.Product](docs)
	case repository.CollectionBranches:
		s.Branches, err = decodeAll[entity.Branch](docs)
	case repository.CollectionSuppliers:
		s.Suppliers, err = decodeAll[entity.Supplier](docs)
	case repository.CollectionUsers:
		s.Users, err = decodeAll[entity.User](docs)
	default:
		err = fmt.Errorf("colección desconocida %q", collection)
	}
	return err
}
