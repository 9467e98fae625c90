package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

// AuditHandler consultas del registro de auditoría.
type AuditHandler struct {
	uc *audit.QueryUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.QueryUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Registro de auditoría (Admin)
// @Description  Filtra por acción exacta, producto o sede. Del más reciente al más antiguo.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action      query  string  false  "Acción exacta (p. ej. Stock Transferred)"
// @Param        product_id  query  string  false  "Producto"
// @Param        branch_id   query  string  false  "Sede"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	q.Normalize()
	logs, err := h.uc.List(c.UserContext(), GetUser(c), repository.AuditFilter{
		Action:    q.Action,
		ProductID: q.ProductID,
		BranchID:  q.BranchID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AuditListResponse{
		Items: logs,
		Page:  q.Page(0),
	})
}

// ProductHistory godoc
// @Summary      Historial de un producto
// @Description  Staff ve las entradas de su sede y los traslados que la involucran.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit/products/{id} [get]
func (h *AuditHandler) ProductHistory(c *fiber.Ctx) error {
	logs, err := h.uc.ProductHistory(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AuditListResponse{Items: logs, Page: dto.PageResponse{Total: len(logs)}})
}
