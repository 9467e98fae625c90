package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

var _ repository.CollectionStore = (*DocumentStore)(nil)

// DocumentStore implementa CollectionStore sobre las tablas documents y collection_versions.
// Cada colección se guarda como filas JSONB; la versión se bloquea con FOR UPDATE durante ReplaceAll.
type DocumentStore struct {
	q  Querier
	tx *TxRunner
}

// NewDocumentStore construye el almacén. q se usa para lecturas, tx para ReplaceAll.
func NewDocumentStore(q Querier, tx *TxRunner) *DocumentStore {
	return &DocumentStore{q: q, tx: tx}
}

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

// LoadAll lee los documentos de la colección en el orden en que fueron guardados.
func (s *DocumentStore) LoadAll(ctx context.Context, collection string) ([]repository.Document, int64, error) {
	var rows []documentRow
	err := pgxscan.Select(ctx, s.q, &rows,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY position`, collection)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: load %s: %v", domain.ErrPersistence, collection, err)
	}

	var version int64
	err = s.q.QueryRow(ctx, `SELECT version FROM collection_versions WHERE collection = $1`, collection).Scan(&version)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: version %s: %v", domain.ErrPersistence, collection, err)
	}

	docs := make([]repository.Document, len(rows))
	for i, r := range rows {
		docs[i] = repository.Document{ID: r.ID, Data: r.Data}
	}
	return docs, version, nil
}

// ReplaceAll borra y reinserta la colección en una sola transacción, con chequeo de versión optimista.
func (s *DocumentStore) ReplaceAll(ctx context.Context, collection string, docs []repository.Document, expectedVersion int64) (int64, error) {
	var next int64
	err := s.tx.Run(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO collection_versions (collection, version) VALUES ($1, 0) ON CONFLICT (collection) DO NOTHING`,
			collection); err != nil {
			return fmt.Errorf("init version: %w", err)
		}

		var current int64
		if err := tx.QueryRow(ctx,
			`SELECT version FROM collection_versions WHERE collection = $1 FOR UPDATE`, collection).Scan(&current); err != nil {
			return fmt.Errorf("lock version: %w", err)
		}
		if current != expectedVersion {
			return fmt.Errorf("%w: %s esperaba versión %d, actual %d", domain.ErrVersionConflict, collection, expectedVersion, current)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, collection); err != nil {
			return fmt.Errorf("clear: %w", err)
		}

		rows := make([][]any, len(docs))
		for i, d := range docs {
			rows[i] = []any{collection, d.ID, i, []byte(d.Data)}
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"documents"},
			[]string{"collection", "id", "position", "data"}, pgx.CopyFromRows(rows)); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: ids repetidos en %s", domain.ErrDuplicate, collection)
			}
			return fmt.Errorf("copy: %w", err)
		}

		return tx.QueryRow(ctx,
			`UPDATE collection_versions SET version = version + 1, updated_at = now() WHERE collection = $1 RETURNING version`,
			collection).Scan(&next)
	})
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) || errors.Is(err, domain.ErrDuplicate) {
			return 0, err
		}
		if isSerializationFailure(err) {
			return 0, fmt.Errorf("%w: %s: %v", domain.ErrVersionConflict, collection, err)
		}
		return 0, fmt.Errorf("%w: replace %s: %v", domain.ErrPersistence, collection, err)
	}
	return next, nil
}
