package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/analytics"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/prediction"
)

// PredictionHandler corridas de predicción de reposición y sus alertas.
type PredictionHandler struct {
	uc        *prediction.UseCase
	dashboard *analytics.DashboardUseCase
}

// NewPredictionHandler construye el handler.
func NewPredictionHandler(uc *prediction.UseCase, dashboard *analytics.DashboardUseCase) *PredictionHandler {
	return &PredictionHandler{uc: uc, dashboard: dashboard}
}

// Run godoc
// @Summary      Ejecutar la predicción de reposición
// @Description  Corridas simultáneas comparten una sola llamada al servicio externo. Si el servicio
// @Description  falla se conservan las predicciones anteriores.
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PredictionRunResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/predictions/run [post]
func (h *PredictionHandler) Run(c *fiber.Ctx) error {
	out, err := h.uc.RunRestock(c.UserContext(), GetUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Latest godoc
// @Summary      Últimas predicciones de reposición
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PredictionRunResponse
// @Router       /api/predictions/latest [get]
func (h *PredictionHandler) Latest(c *fiber.Ctx) error {
	out, err := h.uc.LatestRun(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de urgencia alta no reconocidas
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/predictions/alerts [get]
func (h *PredictionHandler) Alerts(c *fiber.Ctx) error {
	return c.JSON(dto.InventoryListResponse{Items: h.dashboard.Alerts(c.UserContext(), GetUser(c))})
}

// Suggestions godoc
// @Summary      Sugerencias de reposición por sede
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/predictions/suggestions [get]
func (h *PredictionHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(dto.InventoryListResponse{Items: h.dashboard.Suggestions(c.UserContext(), GetUser(c))})
}

// Acknowledge godoc
// @Summary      Reconocer la alerta de un producto
// @Tags         predictions
// @Security     Bearer
// @Param        productId  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/predictions/alerts/{productId}/ack [post]
func (h *PredictionHandler) Acknowledge(c *fiber.Ctx) error {
	if err := h.uc.Acknowledge(c.UserContext(), GetUser(c), c.Params("productId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
