package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

func TestDocumentStore_VersionOptimista(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	docs, version, err := s.LoadAll(ctx, repository.CollectionBranches)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, version)

	v1, err := s.ReplaceAll(ctx, repository.CollectionBranches, []repository.Document{{ID: "b1", Data: []byte(`{"id":"b1"}`)}}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	_, err = s.ReplaceAll(ctx, repository.CollectionBranches, nil, 0)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	docs, version, err = s.LoadAll(ctx, repository.CollectionBranches)
	require.NoError(t, err)
	assert.Equal(t, v1, version)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"id":"b1"}`, string(docs[0].Data))
}

func TestDocumentStore_FalloNoAlteraEstado(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()
	_, err := s.ReplaceAll(ctx, "c", []repository.Document{{ID: "x", Data: []byte(`1`)}}, 0)
	require.NoError(t, err)

	s.FailNext = true
	_, err = s.ReplaceAll(ctx, "c", nil, 1)
	require.ErrorIs(t, err, domain.ErrPersistence)

	_, err = s.ReplaceAll(ctx, "c", []repository.Document{{ID: "a"}, {ID: "a"}}, 1)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	docs, version, err := s.LoadAll(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Len(t, docs, 1)
}

func TestAuditLogRepo_Find(t *testing.T) {
	ctx := context.Background()
	r := NewAuditLogRepository()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	entries := []entity.AuditLog{
		{Timestamp: base, Action: entity.ActionStockAdjusted, ProductID: "p1", BranchID: "b1"},
		{Timestamp: base.Add(time.Minute), Action: entity.ActionStockTransferred, ProductID: "p1", BranchID: "b2"},
		{Timestamp: base.Add(2 * time.Minute), Action: entity.ActionProductAdded, ProductID: "p2"},
	}
	for i := range entries {
		require.NoError(t, r.Append(ctx, &entries[i]))
		assert.NotEmpty(t, entries[i].ID)
	}

	all, err := r.Find(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entity.ActionProductAdded, all[0].Action)

	byProduct, err := r.Find(ctx, repository.AuditFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	byAction, err := r.Find(ctx, repository.AuditFilter{Action: entity.ActionStockTransferred})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "b2", byAction[0].BranchID)

	page, err := r.Find(ctx, repository.AuditFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, entity.ActionStockTransferred, page[0].Action)
}
