package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

// QueryUseCase consultas sobre el registro de auditoría.
type QueryUseCase struct {
	repo repository.AuditLogRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.AuditLogRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// List vista de administración: filtra por acción exacta, producto o sede. Solo Admin.
func (uc *QueryUseCase) List(ctx context.Context, user entity.User, filter repository.AuditFilter) ([]entity.AuditLog, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	logs, err := uc.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("auditoría: %w", err)
	}
	return logs, nil
}

// ProductHistory historial de un producto. Admin ve todo; Staff ve las entradas de su sede
// más los traslados cuyo detalle menciona su sede.
func (uc *QueryUseCase) ProductHistory(ctx context.Context, user entity.User, productID string) ([]entity.AuditLog, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	logs, err := uc.repo.Find(ctx, repository.AuditFilter{ProductID: productID})
	if err != nil {
		return nil, fmt.Errorf("auditoría: %w", err)
	}
	if user.IsAdmin() {
		return logs, nil
	}
	if user.BranchID == "" {
		return []entity.AuditLog{}, nil
	}

	out := make([]entity.AuditLog, 0, len(logs))
	for _, l := range logs {
		if l.BranchID == user.BranchID ||
			(l.Action == entity.ActionStockTransferred && strings.Contains(l.Details, user.BranchID)) {
			out = append(out, l)
		}
	}
	return out, nil
}
