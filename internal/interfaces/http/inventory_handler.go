package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/analytics"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/inventory"
)

// InventoryHandler movimientos de stock y vistas de inventario (protegido).
type InventoryHandler struct {
	stock     *inventory.StockUseCase
	dashboard *analytics.DashboardUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, dashboard *analytics.DashboardUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, dashboard: dashboard}
}

// Items godoc
// @Summary      Inventario visible para el usuario (Staff solo ve su sede)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sede (Admin)"
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) Items(c *fiber.Ctx) error {
	user := GetUser(c)
	items := h.dashboard.InventoryView(c.UserContext(), user)
	if branchID := c.Query("branch_id"); branchID != "" && branchID != "all" && user.IsAdmin() {
		items = analytics.FilterByBranch(items, branchID)
	}
	return c.JSON(dto.InventoryListResponse{Items: items})
}

// Expiring godoc
// @Summary      Lotes próximos a vencer
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días"  default(30)
// @Success      200  {object}  dto.ExpiringResponse
// @Router       /api/inventory/expiring [get]
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days > 365 {
		days = 365
	}
	return c.JSON(h.dashboard.Expiring(c.UserContext(), GetUser(c), days))
}

// Receive godoc
// @Summary      Recibir stock en una sede
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "Recepción"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.Receive(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Consume godoc
// @Summary      Registrar consumo (FEFO por defecto)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeStockRequest  true  "Consumo"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/consume [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.Consume(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar el total de una sede al conteo físico
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200   {object}  dto.StockMovementResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.Adjust(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Trasladar unidades de un lote a otra sede
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Traslado"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.Transfer(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
