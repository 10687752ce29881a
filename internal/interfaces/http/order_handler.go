package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OrderHandler maneja checkout y pedidos. Los clientes operan sobre sus
// propios pedidos; el personal ve y transiciona todos.
type OrderHandler struct {
	create *checkout.CreateOrderUseCase
	orders *checkout.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(create *checkout.CreateOrderUseCase, orders *checkout.OrderUseCase) *OrderHandler {
	return &OrderHandler{create: create, orders: orders}
}

// Checkout godoc
// @Summary      Confirmar el carrito como pedido
// @Description  Descuenta stock con bloqueo de fila, audita cada línea con
// @Description  motivo "sale", crea el pedido y vacía el carrito; todo o nada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  false  "Opciones de checkout"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	order, err := h.create.Create(c.Context(), checkout.CreateInput{
		UserID:   GetUserID(c),
		BranchID: in.BranchID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderToResponse(order))
}

// ListMine godoc
// @Summary      Listar mis pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	limit, offset := c.QueryInt("limit", 20), c.QueryInt("offset", 0)
	orders, err := h.orders.ListByUser(c.Context(), GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ordersToList(orders, limit, offset))
}

// ListAll godoc
// @Summary      Listar pedidos (personal)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders/all [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := c.QueryInt("limit", 20), c.QueryInt("offset", 0)
	orders, err := h.orders.ListByStatus(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ordersToList(orders, limit, offset))
}

// GetByID godoc
// @Summary      Ver pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.orders.GetByID(c.Context(), c.Params("id"), h.requesterID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// Cancel godoc
// @Summary      Cancelar mi pedido (restituye stock con auditoría)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.orders.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// UpdateStatus godoc
// @Summary      Transicionar estado del pedido (personal)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.orders.UpdateStatus(c.Context(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderToResponse(order))
}

// Receipt godoc
// @Summary      Descargar comprobante PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, err := h.orders.Receipt(c.Context(), c.Params("id"), h.requesterID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="pedido.pdf"`)
	return c.Send(pdfBytes)
}

// requesterID devuelve el userID para el chequeo de pertenencia: vacío para
// el personal (ve todos los pedidos), el propio para clientes.
func (h *OrderHandler) requesterID(c *fiber.Ctx) string {
	role := GetRole(c)
	if role == entity.RoleAdmin || role == entity.RoleVendedor {
		return ""
	}
	return GetUserID(c)
}

func ordersToList(orders []*entity.Order, limit, offset int) dto.OrderListResponse {
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(orders)},
	}
	for _, o := range orders {
		out.Items = append(out.Items, dto.OrderToResponse(o))
	}
	return out
}
