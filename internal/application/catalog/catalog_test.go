package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

func seedSnapshot() (catalog.Snapshot, error) {
	return catalog.Snapshot{
		Branches: []entity.Branch{{ID: "branch-1", Name: "Downtown"}},
		Products: []entity.Product{{ID: "prod-1", Name: "Guantes", SupplierID: "sup-1"}},
	}, nil
}

func newCatalog(store repository.CollectionStore) *catalog.Catalog {
	return catalog.New(store, seedSnapshot, logger.Nop())
}

func TestLoad_AlmacenVacioCargaSemilla(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	c := newCatalog(store)

	require.NoError(t, c.Load(ctx, true))

	snap := c.Snapshot()
	assert.Len(t, snap.Products, 1)
	assert.Equal(t, int64(1), c.Version(repository.CollectionProducts))

	docs, _, err := store.LoadAll(ctx, repository.CollectionBranches)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestLoad_FalloDelAlmacenUsaSemilla(t *testing.T) {
	store := memory.NewDocumentStore()
	store.FailNext = true
	c := newCatalog(store)

	require.NoError(t, c.Load(context.Background(), false))

	assert.Len(t, c.Snapshot().Products, 1)
	assert.True(t, c.Dirty(repository.CollectionProducts))

	require.NoError(t, c.Flush(context.Background()))
	assert.False(t, c.Dirty(repository.CollectionProducts))
}

func TestMutate_ErrorNoCambiaEstado(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(memory.NewDocumentStore())
	require.NoError(t, c.Load(ctx, true))

	boom := errors.New("boom")
	err := c.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		s.Products[0].Name = "cambiado"
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Guantes", c.Snapshot().Products[0].Name)
}

func TestMutate_FalloAlGuardarMantieneMemoria(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	c := newCatalog(store)
	require.NoError(t, c.Load(ctx, true))

	store.FailNext = true
	err := c.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		s.Products[0].Name = "Guantes nitrilo"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Guantes nitrilo", c.Snapshot().Products[0].Name)
	assert.True(t, c.Dirty(repository.CollectionProducts))

	require.NoError(t, c.Flush(ctx))
	docs, _, err := store.LoadAll(ctx, repository.CollectionProducts)
	require.NoError(t, err)
	assert.Contains(t, string(docs[0].Data), "Guantes nitrilo")
}

func TestMutate_ConflictoDeVersionRechazaYRecarga(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	a := newCatalog(store)
	b := newCatalog(store)
	require.NoError(t, a.Load(ctx, true))
	require.NoError(t, b.Load(ctx, false))

	require.NoError(t, a.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		s.Products[0].Name = "desde A"
		return nil
	}))

	err := b.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		s.Products[0].Name = "desde B"
		return nil
	})
	require.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Equal(t, "desde A", b.Snapshot().Products[0].Name)

	require.NoError(t, b.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		s.Products[0].Name = "desde B"
		return nil
	}))
}

func TestSnapshot_EsCopia(t *testing.T) {
	c := newCatalog(memory.NewDocumentStore())
	require.NoError(t, c.Load(context.Background(), true))

	snap := c.Snapshot()
	snap.Products[0].Name = "otro"
	snap.Branches = nil

	assert.Equal(t, "Guantes", c.Snapshot().Products[0].Name)
	assert.Len(t, c.Snapshot().Branches, 1)
}
