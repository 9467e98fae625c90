package dto

import "github.com/jhoicas/clinic-inventory-api/internal/domain/entity"

// AuditQuery filtros de GET /api/audit.
type AuditQuery struct {
	Action    string `query:"action"`
	ProductID string `query:"product_id"`
	BranchID  string `query:"branch_id"`
	PageRequest
}

// AuditListResponse entradas del registro de auditoría.
type AuditListResponse struct {
	Items []entity.AuditLog `json:"items"`
	Page  PageResponse      `json:"page"`
}
