package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/analytics"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/usecase"
)

// BranchHandler maneja las sedes de la clínica.
type BranchHandler struct {
	uc        *usecase.BranchUseCase
	dashboard *analytics.DashboardUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase, dashboard *analytics.DashboardUseCase) *BranchHandler {
	return &BranchHandler{uc: uc, dashboard: dashboard}
}

// Create godoc
// @Summary      Crear sede
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BranchRequest  true  "Nombre de la sede"
// @Success      201   {object}  entity.Branch
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.BranchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar sedes
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Branch
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// Rename godoc
// @Summary      Renombrar sede
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sede"
// @Param        body  body  dto.BranchRequest  true  "Nuevo nombre"
// @Success      200   {object}  entity.Branch
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [put]
func (h *BranchHandler) Rename(c *fiber.Ctx) error {
	var in dto.BranchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Rename(c.UserContext(), GetUser(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar sede (sin stock ni usuarios asignados)
// @Tags         branches
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sede"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [delete]
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUser(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Performance godoc
// @Summary      Desempeño por sede (valor, alertas, lotes por vencer)
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.BranchPerformance
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/branches/performance [get]
func (h *BranchHandler) Performance(c *fiber.Ctx) error {
	out, err := h.dashboard.BranchPerformance(c.UserContext(), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
