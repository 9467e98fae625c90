package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

const auditLogsTable = "audit_logs"

var auditColumns = []string{"id", "timestamp", "action", "details", "product_id", "branch_id", "user_id"}

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación append-only del registro de auditoría sobre PostgreSQL.
type AuditLogRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserta una entrada. Asigna id si viene vacío.
func (r *AuditLogRepo) Append(ctx context.Context, log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	sql, args, err := r.builder.Insert(auditLogsTable).Columns(auditColumns...).
		Values(log.ID, log.Timestamp, log.Action, log.Details, log.ProductID, log.BranchID, log.UserID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("%w: insert audit log: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Find consulta por acción exacta, producto, sede o usuario; del más reciente al más antiguo.
func (r *AuditLogRepo) Find(ctx context.Context, filter repository.AuditFilter) ([]entity.AuditLog, error) {
	sql, args, err := r.findQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var logs []entity.AuditLog
	if err := pgxscan.Select(ctx, r.q, &logs, sql, args...); err != nil {
		return nil, fmt.Errorf("%w: select audit logs: %v", domain.ErrPersistence, err)
	}
	return logs, nil
}

func (r *AuditLogRepo) findQuery(f repository.AuditFilter) squirrel.SelectBuilder {
	q := r.builder.Select(auditColumns...).From(auditLogsTable).OrderBy("timestamp DESC", "id DESC")
	if f.Action != "" {
		q = q.Where(squirrel.Eq{"action": f.Action})
	}
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.BranchID != "" {
		q = q.Where(squirrel.Eq{"branch_id": f.BranchID})
	}
	if f.UserID != "" {
		q = q.Where(squirrel.Eq{"user_id": f.UserID})
	}
	if f.Since != nil {
		q = q.Where(squirrel.GtOrEq{"timestamp": *f.Since})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}
