package audit

import (
	"context"
	"time"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

// Entry datos de una acción a registrar.
type Entry struct {
	Action    string
	Details   string
	ProductID string
	BranchID  string
	UserID    string
}

// Recorder sumidero de auditoría de una sola vía: un fallo al registrar se loguea y nunca
// interrumpe la operación que lo originó.
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewRecorder construye el registrador.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log, now: time.Now}
}

// Record agrega una entrada con marca de tiempo UTC.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	entry := &entity.AuditLog{
		Timestamp: r.now().UTC(),
		Action:    e.Action,
		Details:   e.Details,
		ProductID: e.ProductID,
		BranchID:  e.BranchID,
		UserID:    e.UserID,
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Error().Err(err).Str("action", e.Action).Msg("auditoría: no se pudo registrar la acción")
		return
	}
	r.log.Debug().Str("action", e.Action).Str("product_id", e.ProductID).Str("branch_id", e.BranchID).Msg(e.Details)
}
