package repository

import (
	"context"
	"time"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// AuditFilter criterios de consulta; campos vacíos no filtran. Resultados del más reciente al más antiguo.
type AuditFilter struct {
	Action    string
	ProductID string
	BranchID  string
	UserID    string
	Since     *time.Time
	Limit     int
	Offset    int
}

// AuditLogRepository registro append-only de auditoría.
type AuditLogRepository interface {
	Append(ctx context.Context, log *entity.AuditLog) error
	Find(ctx context.Context, filter AuditFilter) ([]entity.AuditLog, error)
}
