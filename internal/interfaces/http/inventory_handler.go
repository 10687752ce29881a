package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/inventory"
)

// InventoryHandler maneja ajustes de stock, historial y reporte de stock bajo
// (solo personal).
type InventoryHandler struct {
	adjust   *inventory.AdjustStockUseCase
	history  *inventory.HistoryUseCase
	lowStock *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjust *inventory.AdjustStockUseCase,
	history *inventory.HistoryUseCase,
	lowStock *inventory.LowStockUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, history: history, lowStock: lowStock}
}

// Adjust godoc
// @Summary      Aplicar ajuste de stock auditado
// @Description  Aplica un delta firmado al producto o variante, con bloqueo de
// @Description  fila y exactamente una entrada de auditoría. Nunca cero, nunca
// @Description  stock negativo, nunca sobre un producto con variantes.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      201   {object}  dto.InventoryLogEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.adjust.Adjust(c.Context(), inventory.AdjustInput{
		ProductID:    in.ProductID,
		VariantID:    in.VariantID,
		ChangeAmount: in.ChangeAmount,
		Reason:       in.Reason,
		Note:         in.Note,
		UserID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LogEntryToResponse(entry))
}

// History godoc
// @Summary      Historial global de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.InventoryLogEntryResponse
// @Router       /api/inventory/log [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
	}
	entries, err := h.history.List(from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LogEntryToResponse(e))
	}
	return c.JSON(out)
}

// ProductHistory godoc
// @Summary      Historial de inventario de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.InventoryLogEntryResponse
// @Router       /api/products/{id}/inventory-log [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
	}
	entries, err := h.history.ListByProduct(c.Params("id"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LogEntryToResponse(e))
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Reporte de stock bajo (agotados primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200    {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.lowStock.GenerateLowStockReport(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
