package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/inventory"
)

// ReorderHandler pedido rápido a proveedor (solo Admin).
type ReorderHandler struct {
	uc *inventory.ReorderUseCase
}

// NewReorderHandler construye el handler.
func NewReorderHandler(uc *inventory.ReorderUseCase) *ReorderHandler {
	return &ReorderHandler{uc: uc}
}

// Prepare godoc
// @Summary      Preparar orden de compra rápida
// @Description  Devuelve el PDF de la orden. El proveedor debe tener activo el pedido rápido.
// @Tags         reorders
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.ReorderRequest  true  "Producto, cantidad y nombre de la orden"
// @Success      200  {file}    file
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reorders [post]
func (h *ReorderHandler) Prepare(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	pdf, err := h.uc.Prepare(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "orden-"+in.ProductID+".pdf"))
	return c.Send(pdf)
}
