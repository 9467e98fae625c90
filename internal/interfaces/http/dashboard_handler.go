package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/analytics"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  KPIs, productos de mayor y menor rotación, vencimientos, alertas y sugerencias.
// @Description  Staff queda fijo en su sede; Admin puede filtrar por sede o ver todas.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        days       query  int     false  "Ventana en días (7, 30, 90, 365)"  default(30)
// @Param        branch_id  query  string  false  "Sede o all"  default(all)
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var filter dto.DashboardFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if err := validate.Struct(filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	summary, err := h.uc.GetSummary(c.UserContext(), GetUser(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
