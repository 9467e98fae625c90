package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo registro de auditoría en memoria.
type AuditLogRepo struct {
	mu   sync.RWMutex
	logs []entity.AuditLog
}

// NewAuditLogRepository construye el repositorio vacío.
func NewAuditLogRepository() *AuditLogRepo {
	return &AuditLogRepo{}
}

func (r *AuditLogRepo) Append(_ context.Context, log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	r.mu.Lock()
	r.logs = append(r.logs, *log)
	r.mu.Unlock()
	return nil
}

func (r *AuditLogRepo) Find(_ context.Context, f repository.AuditFilter) ([]entity.AuditLog, error) {
	r.mu.RLock()
	out := make([]entity.AuditLog, 0, len(r.logs))
	for i := len(r.logs) - 1; i >= 0; i-- {
		l := r.logs[i]
		if (f.Action != "" && l.Action != f.Action) ||
			(f.ProductID != "" && l.ProductID != f.ProductID) ||
			(f.BranchID != "" && l.BranchID != f.BranchID) ||
			(f.UserID != "" && l.UserID != f.UserID) ||
			(f.Since != nil && l.Timestamp.Before(*f.Since)) {
			continue
		}
		out = append(out, l)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []entity.AuditLog{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
